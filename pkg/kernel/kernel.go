// Package kernel defines the abstract geometry kernel interface used to
// turn placed detector volumes into renderable meshes. Implementations
// (sdfx) provide cylindrical primitives and rigid transforms behind this
// interface, so exporters never depend on a particular modelling library.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface. Primitives are centred
// on the origin with their axis along z. Callers must not pass degenerate
// dimensions (rMax <= rMin, height <= 0, empty angular span).
type Kernel interface {
	// Primitives
	Tube(rMin, rMax, height float64) Solid
	TubeSegment(rMin, rMax, height, phiStart, phiEnd float64) Solid // degrees

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
