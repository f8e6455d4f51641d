package scene

// Volume is a named solid filled with a medium. Daughters are placed
// copies of other volumes positioned in this volume's frame.
type Volume struct {
	Name   string
	Solid  *Solid // nil for the top-level assembly
	Medium Medium
	nodes  []*Node
}

// Node is one placement of a volume inside a parent.
type Node struct {
	Volume    *Volume
	Copy      int
	Transform Transform
}

// NewVolume wraps a solid and a medium into a volume.
func NewVolume(name string, s *Solid, m Medium) *Volume {
	return &Volume{Name: name, Solid: s, Medium: m}
}

// NewAssembly creates a shape-less volume used as the root of a scene.
func NewAssembly(name string) *Volume {
	return &Volume{Name: name}
}

// AddNode places child inside v. Copy numbers are not checked here;
// Validate reports duplicate (child, copy) pairs.
func (v *Volume) AddNode(child *Volume, copyNo int, t Transform) *Node {
	n := &Node{Volume: child, Copy: copyNo, Transform: t}
	v.nodes = append(v.nodes, n)
	return n
}

// Nodes returns the placements inside v in insertion order.
func (v *Volume) Nodes() []*Node {
	return v.nodes
}

// NodeCount returns the number of direct placements inside v.
func (v *Volume) NodeCount() int {
	return len(v.nodes)
}

// NodesOf returns the placements of the named volume inside v.
func (v *Volume) NodesOf(name string) []*Node {
	var out []*Node
	for _, n := range v.nodes {
		if n.Volume.Name == name {
			out = append(out, n)
		}
	}
	return out
}

// IsAssembly reports whether v has no shape of its own.
func (v *Volume) IsAssembly() bool {
	return v.Solid == nil
}
