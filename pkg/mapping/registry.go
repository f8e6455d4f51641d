package mapping

import (
	"fmt"
	"sort"
)

// Registry holds the mapping tables of one geometry build, one per barrel.
// It is created by the caller and passed explicitly to Build.
type Registry struct {
	Detector string         `json:"detector" cbor:"1,keyasint"`
	Tables   map[int]*Table `json:"tables" cbor:"2,keyasint"`
}

// NewRegistry returns an empty registry for the named detector.
func NewRegistry(detector string) *Registry {
	return &Registry{Detector: detector, Tables: make(map[int]*Table)}
}

// Add stores a barrel's table. A barrel can only be registered once.
func (r *Registry) Add(t *Table) error {
	if r.Tables == nil {
		r.Tables = make(map[int]*Table)
	}
	if _, ok := r.Tables[t.Barrel]; ok {
		return fmt.Errorf("mapping: barrel %d already has a table", t.Barrel)
	}
	r.Tables[t.Barrel] = t
	return nil
}

// Table returns the table of a barrel.
func (r *Registry) Table(barrel int) (*Table, bool) {
	t, ok := r.Tables[barrel]
	return t, ok
}

// Barrels returns the registered barrel indices in ascending order.
func (r *Registry) Barrels() []int {
	out := make([]int, 0, len(r.Tables))
	for b := range r.Tables {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	return len(r.Tables)
}

// Resolve translates a (barrel, copy) pair into a logical address.
func (r *Registry) Resolve(barrel int, copyNo uint32) (Logical, error) {
	t, ok := r.Tables[barrel]
	if !ok {
		return Logical{}, fmt.Errorf("mapping: no table for barrel %d", barrel)
	}
	l, ok := t.Lookup(copyNo)
	if !ok {
		return Logical{}, fmt.Errorf("mapping: barrel %d: copy %d is not mapped", barrel, copyNo)
	}
	return l, nil
}
