package scene

// Scene is a volume tree rooted at a shape-less top assembly, together with
// the media it draws from, the sensitive-volume registry and the colour
// table used when the tree is exported.
type Scene struct {
	top       *Volume
	media     *Media
	sensitive []string
	colors    *ColorTable
}

// New creates an empty scene. A nil media registry is replaced by
// DefaultMedia.
func New(name string, media *Media) *Scene {
	if media == nil {
		media = DefaultMedia()
	}
	return &Scene{
		top:    NewAssembly(name),
		media:  media,
		colors: NewColorTable(),
	}
}

// Top returns the root volume.
func (s *Scene) Top() *Volume {
	return s.top
}

// Media returns the medium registry.
func (s *Scene) Media() *Media {
	return s.media
}

// Medium resolves a medium by name.
func (s *Scene) Medium(name string) (Medium, error) {
	return s.media.Lookup(name)
}

// Colors returns the colour and transparency table.
func (s *Scene) Colors() *ColorTable {
	return s.colors
}

// RegisterSensitive marks the named volume as the one whose placements
// carry logical sensor addresses. Registering a name twice is a no-op.
func (s *Scene) RegisterSensitive(name string) {
	if s.IsSensitive(name) {
		return
	}
	s.sensitive = append(s.sensitive, name)
}

// IsSensitive reports whether name was registered as a sensor container.
func (s *Scene) IsSensitive(name string) bool {
	for _, n := range s.sensitive {
		if n == name {
			return true
		}
	}
	return false
}

// Sensitive returns the registered sensor containers in registration order.
func (s *Scene) Sensitive() []string {
	return append([]string(nil), s.sensitive...)
}

// Walk visits every placement depth-first in insertion order. path holds
// the chain of placements from a daughter of the top volume down to and
// including the visited node; it must not be retained.
func (s *Scene) Walk(fn func(path []*Node) error) error {
	var path []*Node
	var visit func(v *Volume) error
	visit = func(v *Volume) error {
		for _, n := range v.nodes {
			path = append(path, n)
			if err := fn(path); err != nil {
				return err
			}
			if err := visit(n.Volume); err != nil {
				return err
			}
			path = path[:len(path)-1]
		}
		return nil
	}
	return visit(s.top)
}

// Volumes returns every distinct volume definition reachable from the top,
// in first-visit order. The top assembly itself is not included.
func (s *Scene) Volumes() []*Volume {
	seen := make(map[*Volume]bool)
	var out []*Volume
	_ = s.Walk(func(path []*Node) error {
		v := path[len(path)-1].Volume
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
		return nil
	})
	return out
}

// Lookup returns the first reachable volume definition with the given
// name, or nil.
func (s *Scene) Lookup(name string) *Volume {
	for _, v := range s.Volumes() {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// PlacedCapacity returns the enclosed volume in mm3 of every physical copy
// of the named volume, summed over the whole tree.
func (s *Scene) PlacedCapacity(name string) float64 {
	total := 0.0
	_ = s.Walk(func(path []*Node) error {
		if v := path[len(path)-1].Volume; v.Name == name && v.Solid != nil {
			total += v.Solid.Capacity()
		}
		return nil
	})
	return total
}

// PlacementCount returns the number of placed nodes in the whole tree,
// counting every physical copy.
func (s *Scene) PlacementCount() int {
	count := 0
	_ = s.Walk(func(path []*Node) error {
		count++
		return nil
	})
	return count
}
