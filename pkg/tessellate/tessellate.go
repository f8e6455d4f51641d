// Package tessellate walks a detector scene and produces triangle meshes
// using a geometry kernel. One mesh is produced per physical placement of
// a shaped volume.
package tessellate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/barrelgeo/pkg/kernel"
	"github.com/chazu/barrelgeo/pkg/scene"
)

// Options controls which placements are meshed.
type Options struct {
	// Skip, when set, is consulted for every placement. Returning true
	// drops that placement's own mesh; its daughters are still visited.
	Skip func(path []*scene.Node) bool

	// KeepEmpty retains meshes the kernel returned without triangles.
	// Very thin slabs can fall between marching-cubes samples.
	KeepEmpty bool
}

// SkipMedia returns a Skip predicate that drops volumes made of any of the
// named media, typically the gas-filled containers.
func SkipMedia(names ...string) func(path []*scene.Node) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(path []*scene.Node) bool {
		return set[path[len(path)-1].Volume.Medium.Name]
	}
}

// Stats summarises a tessellation run.
type Stats struct {
	Placements int // placements visited
	Meshed     int // meshes returned
	Degenerate int // placements whose solid encloses no volume
	Empty      int // meshes dropped because the kernel produced nothing
	Skipped    int // placements rejected by Options.Skip
}

// Tessellate walks the scene and produces one triangle mesh per placed,
// shaped volume using the provided geometry kernel. Transforms are applied
// leaf to root, so every mesh is expressed in the top volume's frame. The
// tessellator is read-only and never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel, opts Options) ([]*kernel.Mesh, Stats, error) {
	var stats Stats
	if s == nil {
		return nil, stats, nil
	}

	var meshes []*kernel.Mesh
	err := s.Walk(func(path []*scene.Node) error {
		stats.Placements++
		leaf := path[len(path)-1]
		v := leaf.Volume
		if v.IsAssembly() {
			return nil
		}
		if opts.Skip != nil && opts.Skip(path) {
			stats.Skipped++
			return nil
		}
		if v.Solid.Degenerate() {
			stats.Degenerate++
			return nil
		}

		solid := primitive(k, v.Solid)
		for i := len(path) - 1; i >= 0; i-- {
			solid = place(k, solid, path[i].Transform)
		}

		mesh, err := k.ToMesh(solid)
		if err != nil {
			return fmt.Errorf("tessellate: ToMesh failed for %s: %w", pathString(path), err)
		}
		if mesh.IsEmpty() && !opts.KeepEmpty {
			stats.Empty++
			return nil
		}

		mesh.Volume = v.Name
		mesh.Path = pathString(path)
		if c, ok := s.Colors().Color(v.Name); ok {
			mesh.Color = c
		}
		mesh.Transparency = s.Colors().Transparency(v.Name)
		meshes = append(meshes, mesh)
		stats.Meshed++
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return meshes, stats, nil
}

// primitive creates the kernel solid for a scene solid in its own frame.
func primitive(k kernel.Kernel, sol *scene.Solid) kernel.Solid {
	height := 2 * sol.HalfLength
	if sol.FullAzimuth() {
		return k.Tube(sol.RMin, sol.RMax, height)
	}
	// Cut planes are perpendicular to the axis, so the segment's flat ends
	// already coincide with them.
	return k.TubeSegment(sol.RMin, sol.RMax, height, sol.PhiStart, sol.PhiEnd)
}

// place applies rotation first, then translation.
func place(k kernel.Kernel, s kernel.Solid, t scene.Transform) kernel.Solid {
	if r := t.Rotation; !r.IsZero() {
		s = k.Rotate(s, r.X, r.Y, r.Z)
	}
	if tr := t.Translation; !tr.IsZero() {
		s = k.Translate(s, tr.X, tr.Y, tr.Z)
	}
	return s
}

// pathString renders a placement chain as "Name#copy/Name#copy".
func pathString(path []*scene.Node) string {
	var b strings.Builder
	for i, n := range path {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(n.Volume.Name)
		b.WriteByte('#')
		b.WriteString(strconv.Itoa(n.Copy))
	}
	return b.String()
}
