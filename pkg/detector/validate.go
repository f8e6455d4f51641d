package detector

import (
	"fmt"
	"math"
)

// ConfigError reports an invalid barrel parameter. Barrel is -1 when the
// problem is not tied to one barrel.
type ConfigError struct {
	Barrel int
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Barrel < 0 {
		return fmt.Sprintf("detector: %s: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("detector: barrel %d: %s: %s", e.Barrel, e.Param, e.Reason)
}

// Validate checks every barrel of c and returns the first problem found.
func (c *Config) Validate() error {
	if c.Name == "" {
		return &ConfigError{Barrel: -1, Param: "name", Reason: "detector name must not be empty"}
	}
	if c.ContainerMedium == "" {
		return &ConfigError{Barrel: -1, Param: "containerMedium", Reason: "must not be empty"}
	}
	for i, b := range c.Barrels {
		if err := ValidateBarrel(i, b); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBarrel checks that b describes a physical barrel: positive
// finite segmentation and dimensions, non-negative finite thicknesses,
// known and distinct slab roles with exactly one conversion slab, and
// sectors of positive length and angle.
func ValidateBarrel(index int, b BarrelSpec) error {
	fail := func(param, format string, args ...any) error {
		return &ConfigError{Barrel: index, Param: param, Reason: fmt.Sprintf(format, args...)}
	}

	if b.AzimuthalSectors < 1 {
		return fail("azimuthalSectors", "must be at least 1, got %d", b.AzimuthalSectors)
	}
	if b.BeamlineSections < 1 {
		return fail("beamlineSections", "must be at least 1, got %d", b.BeamlineSections)
	}
	if !positive(b.Radius) {
		return fail("radius", "must be positive and finite, got %g", b.Radius)
	}
	if !positive(b.Length) {
		return fail("length", "must be positive and finite, got %g", b.Length)
	}
	for _, v := range []float64{
		b.Placement.Translation.X, b.Placement.Translation.Y, b.Placement.Translation.Z,
		b.Placement.Rotation.X, b.Placement.Rotation.Y, b.Placement.Rotation.Z,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fail("placement", "must be finite, got %s", b.Placement)
		}
	}

	l := b.Layer
	if l == nil {
		return fail("layer", "no layer specification")
	}
	seen := make(map[string]bool, len(l.Slabs))
	for i, s := range l.Slabs {
		param := "slab " + s.Role
		if s.Role == "" {
			param = fmt.Sprintf("slab %d", i)
		}
		if !slabRoles[s.Role] {
			return fail(param, "unknown role %q", s.Role)
		}
		if seen[s.Role] {
			if s.Role == RoleConversionRegion {
				return fail("slabs", "more than one %s slab", RoleConversionRegion)
			}
			return fail(param, "role appears more than once")
		}
		seen[s.Role] = true
		if !nonNegative(s.Thickness) {
			return fail(param, "thickness must be non-negative and finite, got %g", s.Thickness)
		}
		if s.Material == "" {
			return fail(param, "no material")
		}
	}
	if !seen[RoleConversionRegion] {
		return fail("slabs", "no %s slab", RoleConversionRegion)
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"innerFrameWidth", l.InnerFrameWidth},
		{"innerFrameThickness", l.InnerFrameThickness},
		{"outerFrameWidth", l.OuterFrameWidth},
		{"outerFrameThickness", l.OuterFrameThickness},
	} {
		if !nonNegative(p.value) {
			return fail(p.name, "must be non-negative and finite, got %g", p.value)
		}
	}

	d := Derive(b)
	if !(d.SingleSectorLength > 0) {
		return fail("length", "sector length %g is not positive: %g mm leaves no room after %d frames",
			d.SingleSectorLength, b.Length, b.BeamlineSections+1)
	}
	if !(d.SingleSectorAngle > 0) {
		return fail("azimuthalSectors", "sector angle %g is not positive: %d inner frames do not fit on radius %g",
			d.SingleSectorAngle, b.AzimuthalSectors, b.Radius)
	}
	if !(d.SingleSectorFrameAngle >= 0) {
		return fail("innerFrameWidth", "frame angle %g is negative", d.SingleSectorFrameAngle)
	}
	return nil
}

// slabRoles is the set of roles a slab may carry. Each names the slab's
// volume, so a role may appear once per layer.
var slabRoles = map[string]bool{
	RoleReadoutPcb:          true,
	RoleReadoutStrips:       true,
	RoleAmplificationRegion: true,
	RoleSteelMesh:           true,
	RoleConversionRegion:    true,
	RoleExitWindow:          true,
}

// positive and nonNegative reject NaN and +Inf along with out-of-range
// values.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func nonNegative(x float64) bool {
	return x >= 0 && !math.IsInf(x, 1)
}
