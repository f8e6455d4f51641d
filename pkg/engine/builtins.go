package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/barrelgeo/pkg/detector"
	"github.com/chazu/barrelgeo/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms detector Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: readout-pcb -> readout_pcb
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSlab wraps a detector.Slab so it can be returned from `slab` and
// consumed by `layer`.
type sexpSlab struct {
	slab detector.Slab
}

func (s *sexpSlab) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(slab %s %q %g)", s.slab.Role, s.slab.Material, s.slab.Thickness)
}
func (s *sexpSlab) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a scene.Vec3.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// roleKeywords maps DSL role keywords to slab roles.
var roleKeywords = map[string]string{
	"readout-pcb":          detector.RoleReadoutPcb,
	"readout-strips":       detector.RoleReadoutStrips,
	"amplification-region": detector.RoleAmplificationRegion,
	"steel-mesh":           detector.RoleSteelMesh,
	"conversion-region":    detector.RoleConversionRegion,
	"exit-window":          detector.RoleExitWindow,
}

// toRole converts a keyword (:conversion-region) or a role name
// ("ConversionRegion") to a slab role.
func toRole(s zygo.Sexp) (string, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return "", fmt.Errorf("expected role keyword: %w", err)
	}
	if role, ok := roleKeywords[name]; ok {
		return role, nil
	}
	for _, role := range roleKeywords {
		if role == name {
			return role, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", name)
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return scene.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toSlab extracts a Slab from a sexpSlab.
func toSlab(s zygo.Sexp) (detector.Slab, error) {
	if v, ok := s.(*sexpSlab); ok {
		return v.slab, nil
	}
	return detector.Slab{}, fmt.Errorf("expected slab, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// floatKW stores the numeric keyword argument key when present.
func floatKW(pa kwArgs, fn, key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = f
	return nil
}

// stringKW stores the string keyword argument key when present.
func stringKW(pa kwArgs, fn, key string, dst *string) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	s, err := toString(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = s
	return nil
}

// ---------------------------------------------------------------------------
// File builder
// ---------------------------------------------------------------------------

// fileBuilder collects the forms of one evaluation into a detector.File.
type fileBuilder struct {
	file *detector.File
}

func newFileBuilder() *fileBuilder {
	return &fileBuilder{file: &detector.File{}}
}

func (b *fileBuilder) hasMedium(name string) bool {
	for _, m := range b.file.Media {
		if m.Name == name {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the detector DSL builtins into a zygomys
// environment. The builtins populate b during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *fileBuilder) {

	// -----------------------------------------------------------------------
	// (detector :name "MuMegas" :container "air" :transparency 50)
	// -----------------------------------------------------------------------
	env.AddFunction("detector", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := stringKW(pa, "detector", "name", &b.file.Name); err != nil {
			return zygo.SexpNull, err
		}
		if err := stringKW(pa, "detector", "container", &b.file.ContainerMedium); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["transparency"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("detector: transparency: %w", err)
			}
			b.file.Transparency = n
		}
		return &zygo.SexpStr{S: b.file.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (medium "MyGas" :density 0.0018)
	// -----------------------------------------------------------------------
	env.AddFunction("medium", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("medium requires a name argument")
		}
		mName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("medium: name: %w", err)
		}
		if b.hasMedium(mName) {
			return zygo.SexpNull, fmt.Errorf("medium: %q defined twice", mName)
		}
		md := scene.Medium{Name: mName}
		if err := floatKW(pa, "medium", "density", &md.Density); err != nil {
			return zygo.SexpNull, err
		}
		b.file.Media = append(b.file.Media, md)
		return &zygo.SexpStr{S: mName}, nil
	})

	// -----------------------------------------------------------------------
	// (slab :role :conversion-region :material "arco27030mmg" :thickness 3)
	// -----------------------------------------------------------------------
	env.AddFunction("slab", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var s detector.Slab

		v, ok := pa.kw["role"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("slab requires :role")
		}
		role, err := toRole(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slab: role: %w", err)
		}
		s.Role = role

		if err := stringKW(pa, "slab", "material", &s.Material); err != nil {
			return zygo.SexpNull, err
		}
		if err := floatKW(pa, "slab", "thickness", &s.Thickness); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSlab{slab: s}, nil
	})

	// -----------------------------------------------------------------------
	// (layer "mumegas" :gas "arco27030mmg" :frame "MuMegasCarbonFiber"
	//        :inner-frame-width 10 :inner-frame-thickness 5
	//        :outer-frame-width 20 :outer-frame-thickness 5
	//        (slab ...) (slab ...))
	//
	// Slabs may also be passed as a list with :slabs.
	// -----------------------------------------------------------------------
	env.AddFunction("layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("layer requires a name argument")
		}
		lName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layer: name: %w", err)
		}
		if _, dup := b.file.Layers[lName]; dup {
			return zygo.SexpNull, fmt.Errorf("layer: %q defined twice", lName)
		}

		var spec detector.LayerSpec
		if err := stringKW(pa, "layer", "gas", &spec.GasMixture); err != nil {
			return zygo.SexpNull, err
		}
		if err := stringKW(pa, "layer", "frame", &spec.FrameMaterial); err != nil {
			return zygo.SexpNull, err
		}
		for key, dst := range map[string]*float64{
			"inner-frame-width":     &spec.InnerFrameWidth,
			"inner-frame-thickness": &spec.InnerFrameThickness,
			"outer-frame-width":     &spec.OuterFrameWidth,
			"outer-frame-thickness": &spec.OuterFrameThickness,
		} {
			if err := floatKW(pa, "layer", key, dst); err != nil {
				return zygo.SexpNull, err
			}
		}

		slabs := pa.positional[1:]
		if v, ok := pa.kw["slabs"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("layer: slabs: %w", err)
			}
			slabs = append(slabs, items...)
		}
		for i, item := range slabs {
			s, err := toSlab(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("layer: slab %d: %w", i, err)
			}
			spec.Slabs = append(spec.Slabs, s)
		}

		if b.file.Layers == nil {
			b.file.Layers = make(map[string]detector.LayerSpec)
		}
		b.file.Layers[lName] = spec
		return &zygo.SexpStr{S: lName}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: scene.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (barrel :layer "mumegas" :radius 500 :length 600 :sectors 12
	//         :sections 1 :at (vec3 0 0 0) :rotate (vec3 0 0 0))
	//
	// Returns the barrel index.
	// -----------------------------------------------------------------------
	env.AddFunction("barrel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var be detector.BarrelEntry

		if err := stringKW(pa, "barrel", "layer", &be.Layer); err != nil {
			return zygo.SexpNull, err
		}
		if err := floatKW(pa, "barrel", "radius", &be.Radius); err != nil {
			return zygo.SexpNull, err
		}
		if err := floatKW(pa, "barrel", "length", &be.Length); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["sectors"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("barrel: sectors: %w", err)
			}
			be.AzimuthalSectors = n
		}
		if v, ok := pa.kw["sections"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("barrel: sections: %w", err)
			}
			be.BeamlineSections = n
		}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("barrel: at: %w", err)
			}
			be.Placement.Translation = vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("barrel: rotate: %w", err)
			}
			be.Placement.Rotation = vec
		}

		b.file.Barrels = append(b.file.Barrels, be)
		return &zygo.SexpInt{Val: int64(len(b.file.Barrels) - 1)}, nil
	})
}
