package correspondence

import (
	"fmt"
	"log"
)

// Builder owns a correspondence map while it may still be renumbered.
// Freeze hands the entries over to an immutable Map.
type Builder struct {
	name    string
	entries [][]int
	frozen  bool
}

// NewBuilder copies entries into a new Builder
func NewBuilder(name string, entries [][]int) *Builder {
	b := &Builder{
		name:    name,
		entries: make([][]int, len(entries)),
	}
	for i, e := range entries {
		b.entries[i] = append([]int{}, e...)
	}
	return b
}

func (b *Builder) Name() string { return b.name }
func (b *Builder) Len() int     { return len(b.entries) }

// CheckSize verifies the builder holds one entry per target entity
func (b *Builder) CheckSize(nTarget int) error {
	if len(b.entries) != nTarget {
		return fmt.Errorf("%w: %s has %d entries, target mesh has %d",
			ErrSizeMismatch, b.name, len(b.entries), nTarget)
	}
	return nil
}

// Outcome reports what Renumber did
type Outcome uint8

const (
	Applied Outcome = iota
	SkippedAbsent
	SkippedSizeMismatch
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case SkippedAbsent:
		return "skipped (permutation absent)"
	case SkippedSizeMismatch:
		return "skipped (permutation size mismatch)"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// Renumber rewrites every source index through the inverse of newToOld.
// A nil permutation or one whose length differs from nSource leaves the map
// unchanged; the skip is reported through logger so that a stale permutation
// can be told apart from a missing one.
func (b *Builder) Renumber(permName string, newToOld []int, nSource int, logger *log.Logger) (Outcome, error) {
	if b.frozen {
		return 0, fmt.Errorf("%s: renumbering a frozen map", b.name)
	}
	if logger == nil {
		logger = log.Default()
	}
	if newToOld == nil {
		logger.Printf("No renumbering of %s: %s not present", b.name, permName)
		return SkippedAbsent, nil
	}
	if len(newToOld) != nSource {
		logger.Printf("WARNING: not renumbering %s: %s has %d entries, source mesh has %d",
			b.name, permName, len(newToOld), nSource)
		return SkippedSizeMismatch, nil
	}

	oldToNew, err := Invert(newToOld)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", permName, err)
	}

	for t, sources := range b.entries {
		for _, s := range sources {
			if s < 0 || s >= len(oldToNew) {
				return 0, fmt.Errorf("%s: target %d references source %d outside [0, %d)",
					b.name, t, s, len(oldToNew))
			}
		}
	}

	logger.Printf("Renumber elements according to: %s", permName)
	for _, sources := range b.entries {
		for i, s := range sources {
			sources[i] = oldToNew[s]
		}
	}
	return Applied, nil
}

// Freeze converts the builder into an immutable Map. The builder cannot be
// renumbered afterwards.
func (b *Builder) Freeze() *Map {
	offsets := make([]int, len(b.entries)+1)
	for t, e := range b.entries {
		offsets[t+1] = offsets[t] + len(e)
	}
	indices := make([]int, 0, offsets[len(b.entries)])
	for _, e := range b.entries {
		indices = append(indices, e...)
	}
	b.frozen = true
	b.entries = nil
	return &Map{
		name:    b.name,
		offsets: offsets,
		indices: indices,
	}
}

// Invert turns a newToOld permutation into oldToNew. The permutation must be
// a bijection on [0, len(newToOld)).
func Invert(newToOld []int) ([]int, error) {
	oldToNew := make([]int, len(newToOld))
	for i := range oldToNew {
		oldToNew[i] = -1
	}
	for newIdx, oldIdx := range newToOld {
		if oldIdx < 0 || oldIdx >= len(newToOld) {
			return nil, fmt.Errorf("permutation entry %d = %d outside [0, %d)", newIdx, oldIdx, len(newToOld))
		}
		if oldToNew[oldIdx] != -1 {
			return nil, fmt.Errorf("permutation maps both %d and %d to %d",
				oldToNew[oldIdx], newIdx, oldIdx)
		}
		oldToNew[oldIdx] = newIdx
	}
	return oldToNew, nil
}
