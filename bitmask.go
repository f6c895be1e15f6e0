package dsync

import "math/bits"

// Bitmask tracks component presence on an entity. One bit per registered
// component type, up to 256 types.
type Bitmask [4]uint64

// Set sets the bit for the given component id.
func (m *Bitmask) Set(id ComponentID) {
	m[id/64] |= 1 << (id % 64)
}

// Clear clears the bit for the given component id.
func (m *Bitmask) Clear(id ComponentID) {
	m[id/64] &^= 1 << (id % 64)
}

// Has reports whether the bit for the given component id is set.
func (m *Bitmask) Has(id ComponentID) bool {
	return m[id/64]&(1<<(id%64)) != 0
}

// ContainsAll reports whether every bit set in other is also set in m.
func (m *Bitmask) ContainsAll(other Bitmask) bool {
	return m[0]&other[0] == other[0] &&
		m[1]&other[1] == other[1] &&
		m[2]&other[2] == other[2] &&
		m[3]&other[3] == other[3]
}

// ContainsAny reports whether any bit set in other is also set in m.
func (m *Bitmask) ContainsAny(other Bitmask) bool {
	return m[0]&other[0] != 0 ||
		m[1]&other[1] != 0 ||
		m[2]&other[2] != 0 ||
		m[3]&other[3] != 0
}

// IsZero reports whether no bits are set.
func (m *Bitmask) IsZero() bool {
	return m[0] == 0 && m[1] == 0 && m[2] == 0 && m[3] == 0
}

// Or returns the union of m and other.
func (m Bitmask) Or(other Bitmask) Bitmask {
	return Bitmask{m[0] | other[0], m[1] | other[1], m[2] | other[2], m[3] | other[3]}
}

// And returns the intersection of m and other.
func (m Bitmask) And(other Bitmask) Bitmask {
	return Bitmask{m[0] & other[0], m[1] & other[1], m[2] & other[2], m[3] & other[3]}
}

// Count returns the number of set bits.
func (m *Bitmask) Count() int {
	return bits.OnesCount64(m[0]) +
		bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) +
		bits.OnesCount64(m[3])
}
