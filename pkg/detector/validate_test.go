package detector

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBarrel(t *testing.T) {
	noGap := DefaultLayer()
	noGap.Slabs = noGap.Slabs[:4]

	negative := DefaultLayer()
	negative.Slabs[1].Thickness = -0.01

	unnamed := DefaultLayer()
	unnamed.Slabs[0].Material = ""

	negFrame := DefaultLayer()
	negFrame.InnerFrameThickness = -1

	twoGaps := DefaultLayer()
	twoGaps.Slabs = append(twoGaps.Slabs, Slab{Role: RoleConversionRegion, Material: DefaultGasMixture, Thickness: 1})

	twoWindows := DefaultLayer()
	twoWindows.Slabs = append(twoWindows.Slabs, Slab{Role: RoleExitWindow, Material: "MuMegasKapton", Thickness: 0.05})

	structural := DefaultLayer()
	structural.Slabs[0].Role = RoleSectorFrame

	noRole := DefaultLayer()
	noRole.Slabs[2].Role = ""

	nanSlab := DefaultLayer()
	nanSlab.Slabs[4].Thickness = math.NaN()

	infSlab := DefaultLayer()
	infSlab.Slabs[0].Thickness = math.Inf(1)

	nanFrame := DefaultLayer()
	nanFrame.OuterFrameWidth = math.NaN()

	tests := []struct {
		name  string
		mod   func(b *BarrelSpec)
		param string
	}{
		{"zero sectors", func(b *BarrelSpec) { b.AzimuthalSectors = 0 }, "azimuthalSectors"},
		{"zero sections", func(b *BarrelSpec) { b.BeamlineSections = 0 }, "beamlineSections"},
		{"zero radius", func(b *BarrelSpec) { b.Radius = 0 }, "radius"},
		{"negative length", func(b *BarrelSpec) { b.Length = -1 }, "length"},
		{"no layer", func(b *BarrelSpec) { b.Layer = nil }, "layer"},
		{"no conversion slab", func(b *BarrelSpec) { b.Layer = noGap }, "slabs"},
		{"negative slab", func(b *BarrelSpec) { b.Layer = negative }, "slab " + RoleReadoutStrips},
		{"slab without material", func(b *BarrelSpec) { b.Layer = unnamed }, "slab " + RoleReadoutPcb},
		{"negative frame", func(b *BarrelSpec) { b.Layer = negFrame }, "innerFrameThickness"},
		{"two conversion slabs", func(b *BarrelSpec) { b.Layer = twoGaps }, "slabs"},
		{"repeated role", func(b *BarrelSpec) { b.Layer = twoWindows }, "slab " + RoleExitWindow},
		{"structural role on a slab", func(b *BarrelSpec) { b.Layer = structural }, "slab " + RoleSectorFrame},
		{"slab without role", func(b *BarrelSpec) { b.Layer = noRole }, "slab 2"},
		{"NaN radius", func(b *BarrelSpec) { b.Radius = math.NaN() }, "radius"},
		{"infinite radius", func(b *BarrelSpec) { b.Radius = math.Inf(1) }, "radius"},
		{"NaN length", func(b *BarrelSpec) { b.Length = math.NaN() }, "length"},
		{"infinite length", func(b *BarrelSpec) { b.Length = math.Inf(1) }, "length"},
		{"NaN slab", func(b *BarrelSpec) { b.Layer = nanSlab }, "slab " + RoleConversionRegion},
		{"infinite slab", func(b *BarrelSpec) { b.Layer = infSlab }, "slab " + RoleReadoutPcb},
		{"NaN frame", func(b *BarrelSpec) { b.Layer = nanFrame }, "outerFrameWidth"},
		{"NaN placement", func(b *BarrelSpec) { b.Placement.Translation.Z = math.NaN() }, "placement"},
		{"infinite rotation", func(b *BarrelSpec) { b.Placement.Rotation.Z = math.Inf(-1) }, "placement"},
		{"frames eat the length", func(b *BarrelSpec) { b.Length = 40 }, "length"},
		{"frames eat the circle", func(b *BarrelSpec) { b.Radius = 10; b.AzimuthalSectors = 12 }, "azimuthalSectors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := barrel(500, 600, 12, 1)
			tt.mod(&b)

			err := ValidateBarrel(2, b)
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, 2, ce.Barrel)
			assert.Equal(t, tt.param, ce.Param)
			assert.Contains(t, ce.Error(), "barrel 2")
		})
	}
}

func TestValidateBarrelAccepts(t *testing.T) {
	for _, b := range []BarrelSpec{
		barrel(500, 600, 12, 1),
		barrel(500, 600, 12, 3),
		barrel(80, 100, 1, 1),
	} {
		assert.NoError(t, ValidateBarrel(0, b))
	}
}

func TestValidatedBarrelsHaveDistinctVolumeNames(t *testing.T) {
	b := barrel(500, 600, 12, 3)
	require.NoError(t, ValidateBarrel(0, b))

	names := map[string]bool{}
	for _, role := range []string{RoleBarrelContainer, RoleOuterFrame, RoleInnerFrame, RoleSectorContainer, RoleSectorFrame} {
		names[VolumeName("MuMegas", role, 0)] = true
	}
	for _, s := range b.Layer.Slabs {
		name := VolumeName("MuMegas", s.Role, 0)
		assert.False(t, names[name], "%s collides", name)
		names[name] = true
	}
	assert.Len(t, names, 5+len(b.Layer.Slabs))
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		Name:            "MuMegas",
		ContainerMedium: "air",
		Barrels:         []BarrelSpec{barrel(500, 600, 12, 1), barrel(600, 600, 0, 1)},
	}
	var ce *ConfigError
	require.ErrorAs(t, cfg.Validate(), &ce)
	assert.Equal(t, 1, ce.Barrel)

	cfg.Barrels[1].AzimuthalSectors = 12
	assert.NoError(t, cfg.Validate())

	cfg.Name = ""
	require.ErrorAs(t, cfg.Validate(), &ce)
	assert.Equal(t, -1, ce.Barrel)
	assert.Equal(t, "detector: name: detector name must not be empty", ce.Error())
}
