package detector

// Slab roles. A role doubles as the volume-name fragment of the slab.
const (
	RoleReadoutPcb          = "ReadoutPcb"
	RoleReadoutStrips       = "ReadoutStrips"
	RoleAmplificationRegion = "AmplificationRegion"
	RoleSteelMesh           = "SteelMesh"
	RoleConversionRegion    = "ConversionRegion"
	RoleExitWindow          = "ExitWindow"
)

// Slab is one radial material layer of a sector.
type Slab struct {
	Role      string  `json:"role" yaml:"role" toml:"role"`
	Material  string  `json:"material" yaml:"material" toml:"material"`
	Thickness float64 `json:"thickness" yaml:"thickness" toml:"thickness"` // mm
}

// LayerSpec is the radial stack and frame geometry shared by every barrel
// of one type. Slabs are listed innermost first; the order is the physical
// stack-up. A LayerSpec is never modified once barrels reference it.
type LayerSpec struct {
	Slabs               []Slab  `json:"slabs" yaml:"slabs" toml:"slabs"`
	GasMixture          string  `json:"gasMixture" yaml:"gasMixture" toml:"gasMixture"`
	FrameMaterial       string  `json:"frameMaterial" yaml:"frameMaterial" toml:"frameMaterial"`
	InnerFrameWidth     float64 `json:"innerFrameWidth" yaml:"innerFrameWidth" toml:"innerFrameWidth"`
	InnerFrameThickness float64 `json:"innerFrameThickness" yaml:"innerFrameThickness" toml:"innerFrameThickness"`
	OuterFrameWidth     float64 `json:"outerFrameWidth" yaml:"outerFrameWidth" toml:"outerFrameWidth"`
	OuterFrameThickness float64 `json:"outerFrameThickness" yaml:"outerFrameThickness" toml:"outerFrameThickness"`
}

// Default MuMegas materials.
const (
	DefaultGasMixture      = "arco27030mmg" // Ar/CO2 70/30
	DefaultFrameMaterial   = "MuMegasCarbonFiber"
	DefaultContainerMedium = "air"
)

// DefaultLayer returns the MuMegas stack: 320um FR4-like readout board,
// 10um copper strips, 130um amplification gap, a 19um steel mesh at
// (19/50)^2 optical fill, a 3mm conversion gap and a 50um kapton window.
func DefaultLayer() *LayerSpec {
	return &LayerSpec{
		Slabs: []Slab{
			{Role: RoleReadoutPcb, Material: "MuMegasG10", Thickness: 0.320},
			{Role: RoleReadoutStrips, Material: "copper", Thickness: 0.010},
			{Role: RoleAmplificationRegion, Material: DefaultGasMixture, Thickness: 0.130},
			{Role: RoleSteelMesh, Material: "iron", Thickness: 0.019 * (19. / 50.) * (19. / 50.)},
			{Role: RoleConversionRegion, Material: DefaultGasMixture, Thickness: 3.000},
			{Role: RoleExitWindow, Material: "MuMegasKapton", Thickness: 0.050},
		},
		GasMixture:          DefaultGasMixture,
		FrameMaterial:       DefaultFrameMaterial,
		InnerFrameWidth:     10.0,
		InnerFrameThickness: 5.0,
		OuterFrameWidth:     20.0,
		OuterFrameThickness: 5.0,
	}
}

// SensitiveSlab returns the index of the conversion-region slab, or -1.
func (l *LayerSpec) SensitiveSlab() int {
	for i, s := range l.Slabs {
		if s.Role == RoleConversionRegion {
			return i
		}
	}
	return -1
}

// Materials returns every medium name the layer needs, in first-use order
// and without duplicates.
func (l *LayerSpec) Materials() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	add(l.GasMixture)
	add(l.FrameMaterial)
	for _, s := range l.Slabs {
		add(s.Material)
	}
	return out
}
