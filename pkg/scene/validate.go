package scene

import (
	"fmt"
	"math"
)

// validationEps absorbs rounding in the boundary arithmetic; touching
// volumes are legal, interpenetrating ones are not.
const validationEps = 1e-9

// ValidationSeverity indicates whether a finding makes the scene unusable
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // scene must not be used
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Volume   string             // volume the finding is about (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Volume == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] volume %s: %s", e.Severity, e.Volume, e.Message)
}

// Validate runs structural and geometric checks over the scene and returns
// every finding. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateCopies(s)...)
	errs = append(errs, validateMedia(s)...)
	errs = append(errs, validateSensitive(s)...)
	errs = append(errs, validateDegenerate(s)...)
	errs = append(errs, validateContainment(s)...)
	errs = append(errs, validateOverlaps(s)...)
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateNames checks that two different definitions never share a name.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]*Volume)
	for _, v := range s.Volumes() {
		if prev, ok := seen[v.Name]; ok && prev != v {
			errs = append(errs, ValidationError{
				Volume:   v.Name,
				Message:  "name is used by more than one volume definition",
				Severity: SeverityError,
			})
			continue
		}
		seen[v.Name] = v
	}
	return errs
}

type copyKey struct {
	child string
	copy  int
}

// validateCopies checks that within one parent each (child, copy) pair is
// placed at most once.
func validateCopies(s *Scene) []ValidationError {
	var errs []ValidationError
	parents := append([]*Volume{s.top}, s.Volumes()...)
	for _, parent := range parents {
		seen := make(map[copyKey]bool)
		for _, n := range parent.nodes {
			k := copyKey{child: n.Volume.Name, copy: n.Copy}
			if seen[k] {
				errs = append(errs, ValidationError{
					Volume:   parent.Name,
					Message:  fmt.Sprintf("copy %d of %s placed more than once", n.Copy, n.Volume.Name),
					Severity: SeverityError,
				})
				continue
			}
			seen[k] = true
		}
	}
	return errs
}

// validateMedia checks that every shaped volume uses a registered medium.
func validateMedia(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, v := range s.Volumes() {
		if v.IsAssembly() {
			continue
		}
		if !s.media.Has(v.Medium.Name) {
			errs = append(errs, ValidationError{
				Volume:   v.Name,
				Message:  fmt.Sprintf("medium %q is not registered", v.Medium.Name),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateSensitive warns about sensor containers that were registered but
// never placed.
func validateSensitive(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, name := range s.sensitive {
		if s.Lookup(name) == nil {
			errs = append(errs, ValidationError{
				Volume:   name,
				Message:  "registered as sensitive but not present in the tree",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateDegenerate warns about solids that enclose no volume.
func validateDegenerate(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, v := range s.Volumes() {
		if v.Solid != nil && v.Solid.Degenerate() {
			errs = append(errs, ValidationError{
				Volume:   v.Name,
				Message:  fmt.Sprintf("degenerate solid: %s", v.Solid),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// extent is a placed solid expressed in its parent's cylindrical frame.
type extent struct {
	name         string
	rMin, rMax   float64
	zMin, zMax   float64
	phiLo, phiHi float64 // degrees, phiLo normalised to [0,360)
	full         bool
}

// placedExtent returns the cylindrical extent of a placement, or false when
// the placement tilts the beam axis or shifts it sideways and so cannot be
// checked in (r, phi, z).
func placedExtent(n *Node) (extent, bool) {
	sol := n.Volume.Solid
	t := n.Transform
	if sol == nil || !t.RotatesOnlyAboutZ() || t.Translation.X != 0 || t.Translation.Y != 0 {
		return extent{}, false
	}
	e := extent{
		name: n.Volume.Name,
		rMin: sol.RMin,
		rMax: sol.RMax,
		zMin: t.Translation.Z - sol.HalfLength,
		zMax: t.Translation.Z + sol.HalfLength,
		full: sol.FullAzimuth(),
	}
	if !e.full {
		lo := math.Mod(sol.PhiStart+t.Rotation.Z, 360)
		if lo < 0 {
			lo += 360
		}
		e.phiLo = lo
		e.phiHi = lo + sol.PhiSpan()
	}
	return e, true
}

// validateContainment checks that every daughter stays inside its mother
// in r and z, and inside its mother's azimuthal range when the mother is a
// segment.
func validateContainment(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, parent := range s.Volumes() {
		ps := parent.Solid
		if ps == nil || ps.Degenerate() {
			continue
		}
		for _, n := range parent.nodes {
			e, ok := placedExtent(n)
			if !ok || n.Volume.Solid.Degenerate() {
				continue
			}
			if e.rMin < ps.RMin-validationEps || e.rMax > ps.RMax+validationEps {
				errs = append(errs, ValidationError{
					Volume: parent.Name,
					Message: fmt.Sprintf("copy %d of %s extends radially to [%g,%g] outside [%g,%g]",
						n.Copy, e.name, e.rMin, e.rMax, ps.RMin, ps.RMax),
					Severity: SeverityError,
				})
			}
			if e.zMin < -ps.HalfLength-validationEps || e.zMax > ps.HalfLength+validationEps {
				errs = append(errs, ValidationError{
					Volume: parent.Name,
					Message: fmt.Sprintf("copy %d of %s extends along z to [%g,%g] outside ±%g",
						n.Copy, e.name, e.zMin, e.zMax, ps.HalfLength),
					Severity: SeverityError,
				})
			}
			if !ps.FullAzimuth() && !e.full {
				if e.phiLo < ps.PhiStart-validationEps || e.phiHi > ps.PhiEnd+validationEps {
					errs = append(errs, ValidationError{
						Volume: parent.Name,
						Message: fmt.Sprintf("copy %d of %s spans phi [%g,%g] outside [%g,%g]",
							n.Copy, e.name, e.phiLo, e.phiHi, ps.PhiStart, ps.PhiEnd),
						Severity: SeverityError,
					})
				}
			}
		}
	}
	return errs
}

// validateOverlaps checks that no two daughters of the same mother,
// including the top assembly, interpenetrate. Shared faces are allowed.
func validateOverlaps(s *Scene) []ValidationError {
	var errs []ValidationError
	parents := append([]*Volume{s.top}, s.Volumes()...)
	for _, parent := range parents {
		var placed []extent
		var copies []int
		for _, n := range parent.nodes {
			if n.Volume.Solid == nil || n.Volume.Solid.Degenerate() {
				continue
			}
			if e, ok := placedExtent(n); ok {
				placed = append(placed, e)
				copies = append(copies, n.Copy)
			}
		}
		for i := 0; i < len(placed); i++ {
			for j := i + 1; j < len(placed); j++ {
				if overlaps(placed[i], placed[j]) {
					errs = append(errs, ValidationError{
						Volume: parent.Name,
						Message: fmt.Sprintf("copy %d of %s overlaps copy %d of %s",
							copies[i], placed[i].name, copies[j], placed[j].name),
						Severity: SeverityError,
					})
				}
			}
		}
	}
	return errs
}

func overlaps(a, b extent) bool {
	if !intervalsOverlap(a.rMin, a.rMax, b.rMin, b.rMax) {
		return false
	}
	if !intervalsOverlap(a.zMin, a.zMax, b.zMin, b.zMax) {
		return false
	}
	if a.full || b.full {
		return true
	}
	for _, shift := range []float64{-360, 0, 360} {
		if intervalsOverlap(a.phiLo, a.phiHi, b.phiLo+shift, b.phiHi+shift) {
			return true
		}
	}
	return false
}

func intervalsOverlap(aLo, aHi, bLo, bHi float64) bool {
	return aLo < bHi-validationEps && bLo < aHi-validationEps
}
