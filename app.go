package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/chazu/barrelgeo/pkg/config"
	"github.com/chazu/barrelgeo/pkg/detector"
	"github.com/chazu/barrelgeo/pkg/geometry"
	"github.com/chazu/barrelgeo/pkg/kernel"
	"github.com/chazu/barrelgeo/pkg/kernel/sdfx"
	"github.com/chazu/barrelgeo/pkg/scene"
	"github.com/chazu/barrelgeo/pkg/tessellate"
)

// App wires the loader, the assembler and the exporters together. Each
// command builds one App.
type App struct {
	log    *logrus.Logger
	kernel kernel.Kernel
}

// Build is a finished, validated detector.
type Build struct {
	Config   *detector.Config
	Result   *geometry.Result
	Findings []scene.ValidationError
}

// Summary is the one-line description printed after a build.
type Summary struct {
	Detector       string `json:"detector"`
	Barrels        int    `json:"barrels"`
	Volumes        int    `json:"volumes"`
	Placements     int    `json:"placements"`
	Sensors        int    `json:"sensors"`
	MappingEntries int    `json:"mappingEntries"`
	Fingerprint    string `json:"fingerprint"`

	// SensitiveVolume is the total conversion gas volume in mm3.
	SensitiveVolume float64 `json:"sensitiveVolume"`
}

// MeshDocument is the JSON mesh export.
type MeshDocument struct {
	Detector    string         `json:"detector"`
	Fingerprint string         `json:"fingerprint"`
	Meshes      []*kernel.Mesh `json:"meshes"`
}

// NewApp creates an App using the sdfx kernel at its default resolution.
func NewApp(log *logrus.Logger) *App {
	return &App{log: log, kernel: sdfx.New()}
}

// Build loads the description at path (empty: built-in default), builds
// it and runs structural validation. Validation warnings are logged;
// validation errors fail the build.
func (a *App) Build(path string) (*Build, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	res, err := geometry.NewAssembler(cfg, a.log).Build()
	if err != nil {
		return nil, err
	}

	findings := scene.Validate(res.Scene)
	for _, f := range findings {
		entry := a.log.WithField("volume", f.Volume)
		if f.Severity == scene.SeverityError {
			entry.Error(f.Message)
		} else {
			entry.Warn(f.Message)
		}
	}
	if scene.HasErrors(findings) {
		return nil, fmt.Errorf("scene validation failed with %d finding(s)", len(findings))
	}

	return &Build{Config: cfg, Result: res, Findings: findings}, nil
}

// Summary condenses a build for logging.
func (b *Build) Summary() Summary {
	entries := 0
	for _, barrel := range b.Result.Registry.Barrels() {
		t, _ := b.Result.Registry.Table(barrel)
		entries += t.Len()
	}
	sc := b.Result.Scene
	gas := 0.0
	for _, name := range sc.Sensitive() {
		gas += sc.PlacedCapacity(name)
	}
	return Summary{
		Detector:       b.Config.Name,
		Barrels:        len(b.Result.Barrels),
		Volumes:        len(sc.Volumes()),
		Placements:     sc.PlacementCount(),
		Sensors:        len(sc.Sensitive()),
		MappingEntries: entries,
		Fingerprint:    sc.Fingerprint(),

		SensitiveVolume: gas,
	}
}

// WriteMapping exports every barrel's mapping table.
func (a *App) WriteMapping(b *Build, w io.Writer, compress bool) error {
	if err := b.Result.Registry.Encode(w, compress); err != nil {
		return fmt.Errorf("writing mapping: %w", err)
	}
	return nil
}

// Meshes tessellates the solid material of the build. Containers and gas
// volumes are skipped; only the slabs and frames they hold are meshed.
func (a *App) Meshes(b *Build) ([]*kernel.Mesh, tessellate.Stats, error) {
	skip := []string{b.Config.ContainerMedium}
	for _, spec := range b.Config.Barrels {
		skip = append(skip, spec.Layer.GasMixture)
	}
	meshes, stats, err := tessellate.Tessellate(b.Result.Scene, a.kernel, tessellate.Options{
		Skip: tessellate.SkipMedia(skip...),
	})
	if err != nil {
		return nil, stats, err
	}
	a.log.WithFields(logrus.Fields{
		"placements": stats.Placements,
		"meshed":     stats.Meshed,
		"skipped":    stats.Skipped,
		"degenerate": stats.Degenerate,
		"empty":      stats.Empty,
	}).Info("tessellated")
	return meshes, stats, nil
}

// WriteMeshes encodes meshes as a MeshDocument.
func (a *App) WriteMeshes(b *Build, meshes []*kernel.Mesh, w io.Writer) error {
	doc := MeshDocument{
		Detector:    b.Config.Name,
		Fingerprint: b.Result.Scene.Fingerprint(),
		Meshes:      meshes,
	}
	if doc.Meshes == nil {
		doc.Meshes = []*kernel.Mesh{}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing meshes: %w", err)
	}
	return nil
}
