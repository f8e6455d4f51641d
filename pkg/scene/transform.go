package scene

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec3 is a point or direction in the scene's length unit (mm).
type Vec3 struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
	Z float64 `json:"z" yaml:"z" toml:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z)
}

// Transform is a rigid placement: rotation by Euler angles in degrees
// (applied X, then Y, then Z) followed by a translation.
type Transform struct {
	Translation Vec3 `json:"translation" yaml:"translation" toml:"translation"`
	Rotation    Vec3 `json:"rotation" yaml:"rotation" toml:"rotation"`
}

// Identity is the transform that leaves a volume where it was defined.
var Identity = Transform{}

// TranslateZ returns a pure translation along the beam axis.
func TranslateZ(z float64) Transform {
	return Transform{Translation: Vec3{Z: z}}
}

// RotateZTranslateZ rotates about the beam axis by deg degrees and then
// shifts along it by z.
func RotateZTranslateZ(deg, z float64) Transform {
	return Transform{Translation: Vec3{Z: z}, Rotation: Vec3{Z: deg}}
}

// IsIdentity reports whether t neither rotates nor translates.
func (t Transform) IsIdentity() bool {
	return t.Translation.IsZero() && t.Rotation.IsZero()
}

// RotatesOnlyAboutZ reports whether the rotation part keeps the beam axis
// fixed, which lets callers reason in (r, phi, z) directly.
func (t Transform) RotatesOnlyAboutZ() bool {
	return t.Rotation.X == 0 && t.Rotation.Y == 0
}

// Matrix returns the homogeneous matrix of t.
func (t Transform) Matrix() sdf.M44 {
	rot := sdf.RotateZ(degToRad(t.Rotation.Z)).
		Mul(sdf.RotateY(degToRad(t.Rotation.Y))).
		Mul(sdf.RotateX(degToRad(t.Rotation.X)))
	move := sdf.Translate3d(v3.Vec{X: t.Translation.X, Y: t.Translation.Y, Z: t.Translation.Z})
	return move.Mul(rot)
}

// Apply maps a point from the placed volume's frame into its parent's frame.
func (t Transform) Apply(p Vec3) Vec3 {
	q := t.Matrix().MulPosition(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
	return Vec3{X: q.X, Y: q.Y, Z: q.Z}
}

func (t Transform) String() string {
	return fmt.Sprintf("translate%s rotate%s", t.Translation, t.Rotation)
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}
