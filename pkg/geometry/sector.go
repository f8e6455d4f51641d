package geometry

import (
	"github.com/chazu/barrelgeo/pkg/detector"
	"github.com/chazu/barrelgeo/pkg/scene"
)

// ConversionRegionAngularTrim narrows the conversion gap of every sector
// by this many degrees relative to the sector itself.
//
// TODO: confirm with the detector group whether the trim is a
// navigation workaround or intended dead area; it is kept as found.
const ConversionRegionAngularTrim = 1.0

// Sector is the unit cell of a barrel, before replication.
type Sector struct {
	Gas    *scene.Volume // gas container holding the slab stack
	Frame  *scene.Volume // frame piece filling the gap after the sector
	Sensor *scene.Volume // the conversion-region slab inside Gas
	Slabs  []*scene.Volume
}

// BuildSector creates the sector gas volume with its slab stack and the
// beam-aligned frame piece for one barrel. Neither volume is placed.
func (b *Builder) BuildSector(barrel int, spec detector.BarrelSpec, d detector.Derived) (*Sector, error) {
	layer := spec.Layer
	media := b.Scene.Media()

	gasMedium, err := media.Lookup(layer.GasMixture)
	if err != nil {
		return nil, err
	}
	gasName := b.name(detector.RoleSectorContainer, barrel)
	gas := scene.NewVolume(gasName, scene.NewTruncatedTube(gasName,
		spec.Radius, spec.Radius+d.GasSectorThickness, d.SingleSectorLength/2,
		0, d.SingleSectorAngle, scene.LowCutNormal, scene.HighCutNormal), gasMedium)

	sec := &Sector{Gas: gas}
	rOffset := spec.Radius
	for _, slab := range layer.Slabs {
		angle := d.SingleSectorAngle
		if slab.Role == detector.RoleConversionRegion {
			angle -= ConversionRegionAngularTrim
		}
		var vol *scene.Volume
		vol, rOffset, err = PlaceSlab(media, b.name(slab.Role, barrel), slab.Material,
			d.SingleSectorLength, angle, slab.Thickness, rOffset)
		if err != nil {
			return nil, err
		}
		gas.AddNode(vol, 0, scene.Identity)
		sec.Slabs = append(sec.Slabs, vol)
		if slab.Role == detector.RoleConversionRegion {
			sec.Sensor = vol
		}
	}

	frameMedium, err := media.Lookup(layer.FrameMaterial)
	if err != nil {
		return nil, err
	}
	frameName := b.name(detector.RoleSectorFrame, barrel)
	sec.Frame = scene.NewVolume(frameName, scene.NewTruncatedTube(frameName,
		spec.Radius, spec.Radius+layer.InnerFrameThickness, d.SingleSectorLength/2,
		0, d.SingleSectorFrameAngle, scene.LowCutNormal, scene.HighCutNormal), frameMedium)
	return sec, nil
}
