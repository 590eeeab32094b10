package correspondence

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch is returned when a map does not cover the expected number of
// target entities
var ErrSizeMismatch = errors.New("correspondence map size mismatch")

// Map gives, for each target entity, the ordered set of source entities that
// are averaged onto it. A Map is immutable; it is produced by Builder.Freeze.
//
// Storage is compact: the sources of target t are Indices[Offsets[t]:Offsets[t+1]]
type Map struct {
	name    string
	offsets []int
	indices []int
}

// FromCompact builds a frozen Map directly from its compact representation
func FromCompact(name string, offsets, indices []int) (*Map, error) {
	if len(offsets) == 0 {
		return nil, fmt.Errorf("map %s: offsets must hold at least one entry", name)
	}
	if offsets[0] != 0 || offsets[len(offsets)-1] != len(indices) {
		return nil, fmt.Errorf("map %s: offsets span [%d, %d] but %d indices are stored",
			name, offsets[0], offsets[len(offsets)-1], len(indices))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, fmt.Errorf("map %s: offsets decrease at entry %d", name, i)
		}
	}
	return &Map{
		name:    name,
		offsets: append([]int(nil), offsets...),
		indices: append([]int(nil), indices...),
	}, nil
}

func (m *Map) Name() string { return m.name }

// Len is the number of target entities
func (m *Map) Len() int { return len(m.offsets) - 1 }

// Sources returns the source indices of target entity t. The returned slice
// must not be modified.
func (m *Map) Sources(t int) []int {
	lo, hi := m.offsets[t], m.offsets[t+1]
	return m.indices[lo:hi:hi]
}

// Compact returns copies of the offset and index arrays
func (m *Map) Compact() (offsets, indices []int) {
	return append([]int(nil), m.offsets...), append([]int(nil), m.indices...)
}

// Entries expands the map back into a list of lists
func (m *Map) Entries() [][]int {
	entries := make([][]int, m.Len())
	for t := range entries {
		entries[t] = append([]int{}, m.Sources(t)...)
	}
	return entries
}

// Verify checks that the map covers nTarget entities, that every source index
// lies in [0, nSource) and, unless allowEmpty is set, that no entry is empty
func (m *Map) Verify(nTarget, nSource int, allowEmpty bool) error {
	if m.Len() != nTarget {
		return fmt.Errorf("%w: %s has %d entries, expected %d", ErrSizeMismatch, m.name, m.Len(), nTarget)
	}
	for t := 0; t < m.Len(); t++ {
		src := m.Sources(t)
		if len(src) == 0 && !allowEmpty {
			return fmt.Errorf("%s: target %d has no source entities", m.name, t)
		}
		for _, s := range src {
			if s < 0 || s >= nSource {
				return fmt.Errorf("%s: target %d references source %d outside [0, %d)", m.name, t, s, nSource)
			}
		}
	}
	return nil
}

// Stats summarises the fan-in of a map
type Stats struct {
	Entries    int
	Sources    int
	Empty      int
	MinSources int
	MaxSources int
}

func (m *Map) Stats() (st Stats) {
	st.Entries = m.Len()
	st.Sources = len(m.indices)
	for t := 0; t < m.Len(); t++ {
		n := m.offsets[t+1] - m.offsets[t]
		if n == 0 {
			st.Empty++
		}
		if t == 0 || n < st.MinSources {
			st.MinSources = n
		}
		if n > st.MaxSources {
			st.MaxSources = n
		}
	}
	return
}

func (st Stats) String() string {
	return fmt.Sprintf("%d entries, %d sources, fan-in [%d, %d], %d empty",
		st.Entries, st.Sources, st.MinSources, st.MaxSources, st.Empty)
}
