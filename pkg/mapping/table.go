package mapping

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCollision is returned (wrapped) when two placements map to the same
// table key.
var ErrCollision = errors.New("mapping table collision")

// CollisionError identifies the barrel and copy number that collided.
type CollisionError struct {
	Barrel int
	Copy   uint32
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("mapping: barrel %d: copy number %d already mapped", e.Barrel, e.Copy)
}

func (e *CollisionError) Unwrap() error {
	return ErrCollision
}

// Logical is a sensor cell address independent of how the cell was placed.
type Logical struct {
	Azimuth  uint32 `json:"azimuth" cbor:"1,keyasint"`
	Layer    uint32 `json:"layer" cbor:"2,keyasint"`
	Beamline uint32 `json:"beamline" cbor:"3,keyasint"`
}

func (l Logical) String() string {
	return fmt.Sprintf("(%d,%d,%d)", l.Azimuth, l.Layer, l.Beamline)
}

// Dims is the extent of a barrel's logical address space.
type Dims struct {
	Azimuth  uint32 `json:"azimuth" cbor:"1,keyasint"`
	Layer    uint32 `json:"layer" cbor:"2,keyasint"` // 0: one layer, not segmented
	Beamline uint32 `json:"beamline" cbor:"3,keyasint"`
}

// Level describes one level of the physical (Geant) volume path: the
// volume name and how many copies of it exist per mother. Zero copies
// means a single unnumbered placement.
type Level struct {
	Volume string `json:"volume" cbor:"1,keyasint"`
	Copies uint32 `json:"copies" cbor:"2,keyasint"`
}

// Table maps the copy number of a sector placement to its logical sensor
// address for one barrel.
type Table struct {
	Barrel  int                `json:"barrel" cbor:"1,keyasint"`
	Dims    Dims               `json:"dims" cbor:"2,keyasint"`
	Sensor  string             `json:"sensor" cbor:"3,keyasint"`
	Levels  []Level            `json:"levels" cbor:"4,keyasint"`
	Entries map[uint32]Logical `json:"entries" cbor:"5,keyasint"`

	inverse map[Logical]uint32
}

// NewTable creates an empty table for a barrel.
func NewTable(barrel int, dims Dims, sensor string, levels ...Level) *Table {
	return &Table{
		Barrel:  barrel,
		Dims:    dims,
		Sensor:  sensor,
		Levels:  levels,
		Entries: make(map[uint32]Logical),
		inverse: make(map[Logical]uint32),
	}
}

// Insert adds one entry. A key that is already present, or a logical
// address already claimed by another key, is a collision.
func (t *Table) Insert(copyNo uint32, l Logical) error {
	if t.Entries == nil {
		t.Entries = make(map[uint32]Logical)
	}
	if _, ok := t.Entries[copyNo]; ok {
		return &CollisionError{Barrel: t.Barrel, Copy: copyNo}
	}
	if _, ok := t.inverseIndex()[l]; ok {
		return &CollisionError{Barrel: t.Barrel, Copy: copyNo}
	}
	t.Entries[copyNo] = l
	t.inverse[l] = copyNo
	return nil
}

// Lookup returns the logical address of a sector copy.
func (t *Table) Lookup(copyNo uint32) (Logical, bool) {
	l, ok := t.Entries[copyNo]
	return l, ok
}

// Inverse returns the copy number that carries a logical address.
func (t *Table) Inverse(l Logical) (uint32, bool) {
	c, ok := t.inverseIndex()[l]
	return c, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.Entries)
}

// Keys returns all copy numbers in ascending order.
func (t *Table) Keys() []uint32 {
	keys := make([]uint32, 0, len(t.Entries))
	for k := range t.Entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// inverseIndex rebuilds the reverse index for tables that were decoded
// rather than built.
func (t *Table) inverseIndex() map[Logical]uint32 {
	if t.inverse == nil || len(t.inverse) != len(t.Entries) {
		t.inverse = make(map[Logical]uint32, len(t.Entries))
		for k, l := range t.Entries {
			t.inverse[l] = k
		}
	}
	return t.inverse
}
