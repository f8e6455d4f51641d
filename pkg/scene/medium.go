package scene

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMaterial is returned (wrapped) when a medium name has not been
// registered.
var ErrUnknownMaterial = errors.New("unknown material")

// UnknownMaterialError names the medium that could not be resolved.
type UnknownMaterialError struct {
	Name string
}

func (e *UnknownMaterialError) Error() string {
	return fmt.Sprintf("scene: unknown material %q", e.Name)
}

func (e *UnknownMaterialError) Unwrap() error {
	return ErrUnknownMaterial
}

// Medium is a named material a volume is filled with.
type Medium struct {
	Name    string  `json:"name" yaml:"name" toml:"name"`
	Density float64 `json:"density" yaml:"density" toml:"density"` // g/cm3
}

// Media is the medium registry. The zero value is not usable; call NewMedia.
type Media struct {
	byName map[string]Medium
}

// NewMedia returns an empty registry.
func NewMedia() *Media {
	return &Media{byName: make(map[string]Medium)}
}

// DefaultMedia returns a registry preloaded with the media the MuMegas
// barrels are built from.
func DefaultMedia() *Media {
	m := NewMedia()
	for _, md := range []Medium{
		{Name: "air", Density: 0.00120479},
		{Name: "MuMegasG10", Density: 1.7},
		{Name: "copper", Density: 8.96},
		{Name: "arco27030mmg", Density: 0.00184},
		{Name: "iron", Density: 7.874},
		{Name: "MuMegasKapton", Density: 1.42},
		{Name: "MuMegasCarbonFiber", Density: 1.75},
	} {
		m.byName[md.Name] = md
	}
	return m
}

// Register adds or replaces a medium.
func (m *Media) Register(md Medium) error {
	if md.Name == "" {
		return errors.New("scene: medium name must not be empty")
	}
	if md.Density < 0 {
		return fmt.Errorf("scene: medium %q: negative density %g", md.Name, md.Density)
	}
	m.byName[md.Name] = md
	return nil
}

// Lookup resolves a medium by name.
func (m *Media) Lookup(name string) (Medium, error) {
	md, ok := m.byName[name]
	if !ok {
		return Medium{}, &UnknownMaterialError{Name: name}
	}
	return md, nil
}

// Has reports whether name is registered.
func (m *Media) Has(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Names returns all registered medium names in sorted order.
func (m *Media) Names() []string {
	names := make([]string, 0, len(m.byName))
	for n := range m.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
