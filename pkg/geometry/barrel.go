package geometry

import (
	"github.com/chazu/barrelgeo/pkg/detector"
	"github.com/chazu/barrelgeo/pkg/scene"
)

// Builder creates barrel volume trees inside one scene.
type Builder struct {
	Scene           *scene.Scene
	Detector        string // prefix of every volume name
	ContainerMedium string
}

// Barrel is the result of building one barrel.
type Barrel struct {
	Index      int
	Spec       detector.BarrelSpec
	Derived    detector.Derived
	Container  *scene.Volume
	OuterFrame *scene.Volume
	InnerFrame *scene.Volume // nil with a single beamline section
	Sector     *Sector
}

func (b *Builder) name(role string, barrel int) string {
	return detector.VolumeName(b.Detector, role, barrel)
}

// checkMedia resolves every medium the barrel needs before anything is
// created, so that a missing medium leaves the scene untouched.
func (b *Builder) checkMedia(spec detector.BarrelSpec) error {
	media := b.Scene.Media()
	if _, err := media.Lookup(b.ContainerMedium); err != nil {
		return err
	}
	for _, name := range spec.Layer.Materials() {
		if _, err := media.Lookup(name); err != nil {
			return err
		}
	}
	return nil
}

// BuildBarrel builds the volume tree of one validated barrel and places its
// container in the top volume with the barrel's placement and copy number
// index. The container is attached only once the whole subtree exists.
func (b *Builder) BuildBarrel(index int, spec detector.BarrelSpec) (*Barrel, error) {
	if err := b.checkMedia(spec); err != nil {
		return nil, err
	}
	layer := spec.Layer
	d := detector.Derive(spec)
	nPhi := spec.AzimuthalSectors
	nZ := spec.BeamlineSections
	media := b.Scene.Media()

	out := &Barrel{Index: index, Spec: spec, Derived: d}

	air, err := media.Lookup(b.ContainerMedium)
	if err != nil {
		return nil, err
	}
	containerName := b.name(detector.RoleBarrelContainer, index)
	out.Container = scene.NewVolume(containerName, scene.NewTube(containerName,
		spec.Radius, spec.Radius+d.ContainerThickness, spec.Length/2), air)

	frameMedium, err := media.Lookup(layer.FrameMaterial)
	if err != nil {
		return nil, err
	}

	// Outer frame rings close both ends of the barrel.
	outerName := b.name(detector.RoleOuterFrame, index)
	out.OuterFrame = scene.NewVolume(outerName, scene.NewTube(outerName,
		spec.Radius, spec.Radius+layer.OuterFrameThickness, layer.OuterFrameWidth/2), frameMedium)
	zOuter := (spec.Length - layer.OuterFrameWidth) / 2
	out.Container.AddNode(out.OuterFrame, 0, scene.TranslateZ(zOuter))
	out.Container.AddNode(out.OuterFrame, 1, scene.TranslateZ(-zOuter))

	// Inner frame rings separate consecutive beamline sections.
	if nZ > 1 {
		innerName := b.name(detector.RoleInnerFrame, index)
		out.InnerFrame = scene.NewVolume(innerName, scene.NewTube(innerName,
			spec.Radius, spec.Radius+layer.InnerFrameThickness, layer.InnerFrameWidth/2), frameMedium)
		for iz := 0; iz < nZ-1; iz++ {
			out.Container.AddNode(out.InnerFrame, iz, scene.TranslateZ(d.InnerFrameZOffset(iz, nZ)))
		}
	}

	sec, err := b.BuildSector(index, spec, d)
	if err != nil {
		return nil, err
	}
	out.Sector = sec

	for ir := 0; ir < nPhi; ir++ {
		phi := detector.SectorRotation(ir, nPhi)
		for iz := 0; iz < nZ; iz++ {
			out.Container.AddNode(sec.Gas, ir*nZ+iz, scene.RotateZTranslateZ(phi, d.SectorZOffset(iz, nZ)))
		}
	}
	// Each frame piece starts where its sector's clear acceptance ends.
	for ir := 0; ir < nPhi; ir++ {
		phi := detector.SectorRotation(ir, nPhi) + d.SingleSectorAngle
		for iz := 0; iz < nZ; iz++ {
			out.Container.AddNode(sec.Frame, ir*nZ+iz, scene.RotateZTranslateZ(phi, d.SectorZOffset(iz, nZ)))
		}
	}

	b.Scene.Top().AddNode(out.Container, index, spec.Placement)
	return out, nil
}
