package geometry

import "github.com/chazu/barrelgeo/pkg/scene"

// PlaceSlab creates one radial material slab starting at rOffset: a tube
// segment [rOffset, rOffset+thickness] of the given length, spanning
// [0, angle] degrees. It returns the unplaced volume and the offset at the
// slab's outer surface. A non-positive thickness gives a degenerate slab.
func PlaceSlab(media *scene.Media, name, material string, length, angle, thickness, rOffset float64) (*scene.Volume, float64, error) {
	medium, err := media.Lookup(material)
	if err != nil {
		return nil, rOffset, err
	}
	solid := scene.NewTruncatedTube(name, rOffset, rOffset+thickness, length/2,
		0, angle, scene.LowCutNormal, scene.HighCutNormal)
	return scene.NewVolume(name, solid, medium), rOffset + thickness, nil
}
