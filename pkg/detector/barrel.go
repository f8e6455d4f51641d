package detector

import (
	"fmt"

	"github.com/chazu/barrelgeo/pkg/scene"
)

// BarrelSpec places one barrel and fixes its segmentation.
type BarrelSpec struct {
	Radius           float64         // inner radius, mm
	Length           float64         // full length along the beam, mm
	AzimuthalSectors int             // N_phi
	BeamlineSections int             // N_z
	Placement        scene.Transform // position of the barrel in the top volume
	Layer            *LayerSpec      // shared, read-only
}

// SectorCount returns N_phi * N_z, the number of sector cells.
func (b BarrelSpec) SectorCount() int {
	return b.AzimuthalSectors * b.BeamlineSections
}

// Config is the resolved input of a geometry build.
type Config struct {
	Name            string // detector name, prefix of every volume name
	ContainerMedium string // medium of the per-barrel container
	Transparency    int    // percent applied to readout boards and windows
	Media           []scene.Medium
	Barrels         []BarrelSpec
}

// VolumeName builds the deterministic volume name for a role within one
// barrel, e.g. "MuMegasSectorContainerVolume03". Roles never share a
// prefix with one another, so names are unique across the whole detector.
func VolumeName(detector, role string, barrel int) string {
	return fmt.Sprintf("%s%s%02d", detector, role, barrel)
}

// Structural volume roles.
const (
	RoleBarrelContainer = "BarrelContainerVolume"
	RoleOuterFrame      = "OuterFrameVolume"
	RoleInnerFrame      = "InnerFrameVolume"
	RoleSectorContainer = "SectorContainerVolume"
	RoleSectorFrame     = "SectorFrameVolume"
)
