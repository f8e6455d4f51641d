package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats/scalar"
)

const eps = 1e-9

func barrel(radius, length float64, nPhi, nZ int) BarrelSpec {
	return BarrelSpec{
		Radius:           radius,
		Length:           length,
		AzimuthalSectors: nPhi,
		BeamlineSections: nZ,
		Layer:            DefaultLayer(),
	}
}

func TestDeriveDefaultBarrel(t *testing.T) {
	d := Derive(barrel(500, 600, 12, 1))

	assert.True(t, scalar.EqualWithinAbs(d.GasSectorThickness, 3.5127436, 1e-9), "gas %g", d.GasSectorThickness)
	assert.Equal(t, 5.0, d.ContainerThickness)
	assert.Equal(t, 560.0, d.SingleSectorLength)
	assert.Equal(t, 570.0, d.SingleSectorZSpacing)
	assert.True(t, scalar.EqualWithinAbs(d.SingleSectorFrameAngle, 360*10/(2*3.141592653589793*500), 1e-9))
	assert.True(t, scalar.EqualWithinAbs(d.SingleSectorAngle, 30-d.SingleSectorFrameAngle, 1e-9))
}

func TestDeriveThreeSections(t *testing.T) {
	d := Derive(barrel(500, 600, 12, 3))
	assert.Equal(t, 180.0, d.SingleSectorLength)
	assert.Equal(t, 190.0, d.SingleSectorZSpacing)

	assert.Equal(t, -190.0, d.SectorZOffset(0, 3))
	assert.Equal(t, 0.0, d.SectorZOffset(1, 3))
	assert.Equal(t, 190.0, d.SectorZOffset(2, 3))
	assert.Equal(t, -95.0, d.InnerFrameZOffset(0, 3))
	assert.Equal(t, 95.0, d.InnerFrameZOffset(1, 3))
}

func TestDerivedInvariants(t *testing.T) {
	for _, b := range []BarrelSpec{
		barrel(500, 600, 12, 1),
		barrel(500, 600, 12, 3),
		barrel(250, 1200, 7, 5),
		barrel(1000, 300, 64, 2),
		barrel(80, 100, 1, 1),
	} {
		d := Derive(b)
		l := b.Layer
		nPhi, nZ := float64(b.AzimuthalSectors), float64(b.BeamlineSections)

		// Sectors and frame pieces tile the full circle.
		assert.True(t, scalar.EqualWithinAbs(nPhi*(d.SingleSectorAngle+d.SingleSectorFrameAngle), 360, eps))

		// Sections, inner rings and outer rings rebuild the barrel length.
		total := nZ*d.SingleSectorLength + (nZ-1)*l.InnerFrameWidth + 2*l.OuterFrameWidth
		assert.True(t, scalar.EqualWithinAbs(total, b.Length, eps))

		// The container encloses every radial piece.
		assert.GreaterOrEqual(t, d.ContainerThickness, d.GasSectorThickness)
		assert.GreaterOrEqual(t, d.ContainerThickness, l.InnerFrameThickness)
		assert.GreaterOrEqual(t, d.ContainerThickness, l.OuterFrameThickness)

		// Outermost sections end where the outer rings begin.
		last := d.SectorZOffset(b.BeamlineSections-1, b.BeamlineSections) + d.SingleSectorLength/2
		assert.True(t, scalar.EqualWithinAbs(last, b.Length/2-l.OuterFrameWidth, eps))
	}
}

func TestDeriveThickFramesDominate(t *testing.T) {
	b := barrel(500, 600, 12, 1)
	l := *b.Layer
	l.OuterFrameThickness = 12
	b.Layer = &l
	assert.Equal(t, 12.0, Derive(b).ContainerThickness)
}

func TestSectorRotation(t *testing.T) {
	assert.Equal(t, 0.0, SectorRotation(0, 12))
	assert.Equal(t, 30.0, SectorRotation(1, 12))
	assert.Equal(t, 330.0, SectorRotation(11, 12))
}

func TestVolumeName(t *testing.T) {
	assert.Equal(t, "MuMegasSectorContainerVolume03", VolumeName("MuMegas", RoleSectorContainer, 3))
	assert.Equal(t, "MuMegasConversionRegion12", VolumeName("MuMegas", RoleConversionRegion, 12))
}

func TestLayerHelpers(t *testing.T) {
	l := DefaultLayer()
	assert.Equal(t, 4, l.SensitiveSlab())
	assert.Equal(t, []string{"arco27030mmg", "MuMegasCarbonFiber", "MuMegasG10", "copper", "iron", "MuMegasKapton"}, l.Materials())

	empty := &LayerSpec{}
	assert.Equal(t, -1, empty.SensitiveSlab())
	assert.Empty(t, empty.Materials())

	assert.Equal(t, 36, barrel(500, 600, 12, 3).SectorCount())
}
