package detector

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Derived holds the per-barrel quantities the tree builder places volumes
// with. Angles are in degrees.
type Derived struct {
	GasSectorThickness      float64
	ContainerThickness      float64
	SingleSectorLength      float64
	SingleSectorZSpacing    float64
	ClearAcceptanceFraction float64
	SingleSectorAngle       float64
	SingleSectorFrameAngle  float64
}

// Derive computes the derived quantities of b. It does not validate; see
// Validate for the conditions under which the result is physical.
func Derive(b BarrelSpec) Derived {
	l := b.Layer
	nPhi := float64(b.AzimuthalSectors)
	nZ := float64(b.BeamlineSections)

	thicknesses := make([]float64, len(l.Slabs))
	for i, s := range l.Slabs {
		thicknesses[i] = s.Thickness
	}
	var d Derived
	if len(thicknesses) > 0 {
		d.GasSectorThickness = floats.Sum(thicknesses)
	}
	d.ContainerThickness = floats.Max([]float64{
		d.GasSectorThickness, l.InnerFrameThickness, l.OuterFrameThickness,
	})

	d.SingleSectorLength = (b.Length - 2.0*l.OuterFrameWidth - (nZ-1)*l.InnerFrameWidth) / nZ
	d.SingleSectorZSpacing = d.SingleSectorLength + l.InnerFrameWidth

	circumference := 2.0 * math.Pi * b.Radius
	d.ClearAcceptanceFraction = (circumference - nPhi*l.InnerFrameWidth) / circumference
	d.SingleSectorAngle = 360.0 * d.ClearAcceptanceFraction / nPhi
	d.SingleSectorFrameAngle = 360.0/nPhi - d.SingleSectorAngle
	return d
}

// SectorZOffset returns the z centre of longitudinal section iz.
func (d Derived) SectorZOffset(iz, sections int) float64 {
	return d.SingleSectorZSpacing * (float64(iz) - float64(sections-1)/2.0)
}

// InnerFrameZOffset returns the z centre of inner frame ring iz, which
// sits between sections iz and iz+1.
func (d Derived) InnerFrameZOffset(iz, sections int) float64 {
	return d.SingleSectorZSpacing * (float64(iz) - float64(sections-2)/2.0)
}

// SectorRotation returns the azimuthal rotation in degrees of sector ir.
func SectorRotation(ir, sectors int) float64 {
	return float64(ir) * 360.0 / float64(sectors)
}
