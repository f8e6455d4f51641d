package scene

import (
	"fmt"
	"math"
)

// SolidKind distinguishes the primitive shapes a volume can have.
type SolidKind int

const (
	SolidTube          SolidKind = iota // full cylindrical shell
	SolidTruncatedTube                  // shell segment [PhiStart, PhiEnd] with cut end planes
)

func (k SolidKind) String() string {
	switch k {
	case SolidTube:
		return "tube"
	case SolidTruncatedTube:
		return "ctub"
	default:
		return "unknown"
	}
}

// Solid is a cylindrical shell centred on the z axis, spanning
// [-HalfLength, HalfLength] along it.
type Solid struct {
	Name       string
	Kind       SolidKind
	RMin       float64
	RMax       float64
	HalfLength float64
	PhiStart   float64 // degrees, truncated tubes only
	PhiEnd     float64 // degrees, truncated tubes only
	LowNormal  Vec3    // outward normal of the -z cut plane
	HighNormal Vec3    // outward normal of the +z cut plane
}

// Default cut planes of a truncated tube: perpendicular to the beam axis.
var (
	LowCutNormal  = Vec3{Z: -1}
	HighCutNormal = Vec3{Z: 1}
)

// NewTube creates a full tube [rMin, rMax] x [-halfLength, halfLength].
func NewTube(name string, rMin, rMax, halfLength float64) *Solid {
	return &Solid{
		Name:       name,
		Kind:       SolidTube,
		RMin:       rMin,
		RMax:       rMax,
		HalfLength: halfLength,
		PhiStart:   0,
		PhiEnd:     360,
	}
}

// NewTruncatedTube creates a tube segment covering [phiStart, phiEnd]
// degrees with the given end-plane normals. A non-positive angular span
// produces a degenerate solid rather than an error.
func NewTruncatedTube(name string, rMin, rMax, halfLength, phiStart, phiEnd float64, low, high Vec3) *Solid {
	return &Solid{
		Name:       name,
		Kind:       SolidTruncatedTube,
		RMin:       rMin,
		RMax:       rMax,
		HalfLength: halfLength,
		PhiStart:   phiStart,
		PhiEnd:     phiEnd,
		LowNormal:  low,
		HighNormal: high,
	}
}

// PhiSpan returns the angular width in degrees.
func (s *Solid) PhiSpan() float64 {
	return s.PhiEnd - s.PhiStart
}

// FullAzimuth reports whether the solid closes on itself around z.
func (s *Solid) FullAzimuth() bool {
	return s.Kind == SolidTube || s.PhiSpan() >= 360
}

// Degenerate reports whether the solid encloses no volume.
func (s *Solid) Degenerate() bool {
	return s.RMax <= s.RMin || s.HalfLength <= 0 || s.PhiSpan() <= 0
}

// Capacity returns the enclosed volume in mm3; degenerate solids have none.
func (s *Solid) Capacity() float64 {
	if s.Degenerate() {
		return 0
	}
	span := math.Min(s.PhiSpan(), 360) * math.Pi / 180.0
	return 0.5 * (s.RMax*s.RMax - s.RMin*s.RMin) * span * 2 * s.HalfLength
}

func (s *Solid) String() string {
	if s.Kind == SolidTube {
		return fmt.Sprintf("%s %s r=[%g,%g] dz=%g", s.Kind, s.Name, s.RMin, s.RMax, s.HalfLength)
	}
	return fmt.Sprintf("%s %s r=[%g,%g] dz=%g phi=[%g,%g]", s.Kind, s.Name, s.RMin, s.RMax, s.HalfLength, s.PhiStart, s.PhiEnd)
}
