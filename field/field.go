package field

import (
	"fmt"

	"github.com/notargets/DualMap/mesh"
	"github.com/notargets/DualMap/tensor"
)

// PatchField holds the boundary values of a field on one patch
type PatchField[T tensor.Value[T]] struct {
	Type   string // Boundary condition type tag, e.g. fixedValue
	Patch  string // Name of the patch on the owning mesh
	Values []T
}

func (p *PatchField[T]) Len() int { return len(p.Values) }

// Field is a named set of values over all cells plus one PatchField per
// boundary patch, in mesh patch order
type Field[T tensor.Value[T]] struct {
	Name       string
	Dimensions string
	Internal   []T
	Boundary   []*PatchField[T]
}

func (f *Field[T]) Rank() tensor.Rank {
	var v T
	return v.Rank()
}

func (f *Field[T]) ClassName() string { return f.Rank().ClassName() }

// Rename returns a shallow copy of f carrying a new name
func (f *Field[T]) Rename(name string) *Field[T] {
	g := *f
	g.Name = name
	return &g
}

// InterpolatedName is the name given to a transient mapped field
func InterpolatedName(name string) string {
	return "interpolated(" + name + ")"
}

// CheckSizes verifies that f is laid out over m. With a nil factory a patch
// field may hold no values at all; otherwise only valueless kinds may.
func (f *Field[T]) CheckSizes(m *mesh.Mesh, factory *Factory) error {
	if len(f.Internal) != m.NCells {
		return fmt.Errorf("field %s: %d internal values, mesh %s has %d cells",
			f.Name, len(f.Internal), m.Name, m.NCells)
	}
	if len(f.Boundary) != len(m.Patches) {
		return fmt.Errorf("field %s: %d patch fields, mesh %s has %d patches",
			f.Name, len(f.Boundary), m.Name, len(m.Patches))
	}
	for i, pf := range f.Boundary {
		p := m.Patches[i]
		if pf.Patch != p.Name {
			return fmt.Errorf("field %s: patch field %d is on %s, mesh patch is %s", f.Name, i, pf.Patch, p.Name)
		}
		want := p.Size
		switch {
		case factory == nil:
			if pf.Len() == 0 {
				want = 0
			}
		default:
			k, err := factory.Lookup(pf.Type)
			if err != nil {
				return fmt.Errorf("field %s patch %s: %w", f.Name, p.Name, err)
			}
			if k.Valueless {
				want = 0
			}
		}
		if pf.Len() != want {
			return fmt.Errorf("field %s: patch %s holds %d values for %d faces", f.Name, p.Name, pf.Len(), want)
		}
	}
	return nil
}

// Align reorders the patch fields of f to follow the patch order of m,
// matching by patch name
func (f *Field[T]) Align(m *mesh.Mesh) error {
	if len(f.Boundary) != len(m.Patches) {
		return fmt.Errorf("field %s: %d patch fields, mesh %s has %d patches",
			f.Name, len(f.Boundary), m.Name, len(m.Patches))
	}
	byName := make(map[string]*PatchField[T], len(f.Boundary))
	for _, pf := range f.Boundary {
		byName[pf.Patch] = pf
	}
	aligned := make([]*PatchField[T], len(m.Patches))
	for i, p := range m.Patches {
		pf, ok := byName[p.Name]
		if !ok {
			return fmt.Errorf("field %s: no patch field for patch %s", f.Name, p.Name)
		}
		aligned[i] = pf
	}
	f.Boundary = aligned
	return nil
}
