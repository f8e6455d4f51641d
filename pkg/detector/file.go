package detector

import (
	"fmt"

	"github.com/chazu/barrelgeo/pkg/scene"
)

// DefaultLayerName is the layer barrels use when they name none. It
// resolves to DefaultLayer unless the file overrides it.
const DefaultLayerName = "mumegas"

// File is the serialisable form of a detector description. Barrels refer
// to layers by name; Resolve turns it into a Config in which every barrel
// naming the same layer shares one *LayerSpec.
type File struct {
	Name            string               `json:"name" yaml:"name" toml:"name"`
	ContainerMedium string               `json:"containerMedium,omitempty" yaml:"containerMedium,omitempty" toml:"containerMedium,omitempty"`
	Transparency    int                  `json:"transparency,omitempty" yaml:"transparency,omitempty" toml:"transparency,omitempty"`
	Media           []scene.Medium       `json:"media,omitempty" yaml:"media,omitempty" toml:"media,omitempty"`
	Layers          map[string]LayerSpec `json:"layers,omitempty" yaml:"layers,omitempty" toml:"layers,omitempty"`
	Barrels         []BarrelEntry        `json:"barrels" yaml:"barrels" toml:"barrels"`
}

// BarrelEntry is one barrel of a File.
type BarrelEntry struct {
	Layer            string          `json:"layer,omitempty" yaml:"layer,omitempty" toml:"layer,omitempty"`
	Radius           float64         `json:"radius" yaml:"radius" toml:"radius"`
	Length           float64         `json:"length" yaml:"length" toml:"length"`
	AzimuthalSectors int             `json:"azimuthalSectors" yaml:"azimuthalSectors" toml:"azimuthalSectors"`
	BeamlineSections int             `json:"beamlineSections" yaml:"beamlineSections" toml:"beamlineSections"`
	Placement        scene.Transform `json:"placement" yaml:"placement" toml:"placement"`
}

// DefaultFile describes a single MuMegas barrel: 500 mm radius, 600 mm
// long, 12 azimuthal sectors in one section.
func DefaultFile() *File {
	return &File{
		Name:            "MuMegas",
		ContainerMedium: DefaultContainerMedium,
		Barrels: []BarrelEntry{
			{Layer: DefaultLayerName, Radius: 500, Length: 600, AzimuthalSectors: 12, BeamlineSections: 1},
		},
	}
}

// Resolve produces the build configuration. Unknown layer names are
// configuration errors of the barrel that references them.
func (f *File) Resolve() (*Config, error) {
	cfg := &Config{
		Name:            f.Name,
		ContainerMedium: f.ContainerMedium,
		Transparency:    f.Transparency,
		Media:           append([]scene.Medium(nil), f.Media...),
	}
	if cfg.Name == "" {
		cfg.Name = "MuMegas"
	}
	if cfg.ContainerMedium == "" {
		cfg.ContainerMedium = DefaultContainerMedium
	}

	shared := make(map[string]*LayerSpec)
	for i, be := range f.Barrels {
		name := be.Layer
		if name == "" {
			name = DefaultLayerName
		}
		layer, ok := shared[name]
		if !ok {
			spec, found := f.Layers[name]
			switch {
			case found:
				spec.Slabs = append([]Slab(nil), spec.Slabs...)
				if spec.GasMixture == "" {
					spec.GasMixture = DefaultGasMixture
				}
				if spec.FrameMaterial == "" {
					spec.FrameMaterial = DefaultFrameMaterial
				}
				layer = &spec
			case name == DefaultLayerName:
				layer = DefaultLayer()
			default:
				return nil, &ConfigError{Barrel: i, Param: "layer", Reason: fmt.Sprintf("unknown layer %q", name)}
			}
			shared[name] = layer
		}
		cfg.Barrels = append(cfg.Barrels, BarrelSpec{
			Radius:           be.Radius,
			Length:           be.Length,
			AzimuthalSectors: be.AzimuthalSectors,
			BeamlineSections: be.BeamlineSections,
			Placement:        be.Placement,
			Layer:            layer,
		})
	}
	return cfg, nil
}
