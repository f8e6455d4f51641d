// Package detector describes barrel detector modules: the radial material
// stack shared by a family of barrels (LayerSpec), each barrel's placement
// and segmentation (BarrelSpec), and the quantities derived from them that
// the geometry builder works with.
package detector
