// Package geometry builds the volume tree of barrel detectors. For every
// barrel it creates an air container, frame rings, one sector cell with its
// radial material stack and the azimuthal frame piece, replicates the cell
// around the beam axis and along it, and fills the barrel's sensor mapping
// table.
package geometry
