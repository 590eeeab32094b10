package field

import (
	"fmt"

	"github.com/notargets/DualMap/tensor"
)

// Raw is the rank-independent form of a field used by persistence: every value
// is a flat list of components
type Raw struct {
	Class      string
	Name       string
	Dimensions string
	Internal   [][]float64
	Boundary   []RawPatch
}

type RawPatch struct {
	Patch  string
	Type   string
	Values [][]float64
}

// Rank parses the class tag
func (r *Raw) Rank() (tensor.Rank, error) { return tensor.ParseClass(r.Class) }

// Decode converts a Raw field into a typed Field
func Decode[T tensor.Value[T]](r *Raw) (*Field[T], error) {
	f := &Field[T]{
		Name:       r.Name,
		Dimensions: r.Dimensions,
	}
	if r.Class != f.ClassName() {
		return nil, fmt.Errorf("field %s: class %s cannot be read as %s", r.Name, r.Class, f.ClassName())
	}

	var err error
	if f.Internal, err = decodeValues[T](r.Internal); err != nil {
		return nil, fmt.Errorf("field %s internalField: %w", r.Name, err)
	}
	f.Boundary = make([]*PatchField[T], len(r.Boundary))
	for i, rp := range r.Boundary {
		pf := &PatchField[T]{Type: rp.Type, Patch: rp.Patch}
		if pf.Values, err = decodeValues[T](rp.Values); err != nil {
			return nil, fmt.Errorf("field %s patch %s: %w", r.Name, rp.Patch, err)
		}
		f.Boundary[i] = pf
	}
	return f, nil
}

// Encode converts a typed Field into its Raw form
func Encode[T tensor.Value[T]](f *Field[T]) *Raw {
	r := &Raw{
		Class:      f.ClassName(),
		Name:       f.Name,
		Dimensions: f.Dimensions,
		Internal:   encodeValues(f.Internal),
		Boundary:   make([]RawPatch, len(f.Boundary)),
	}
	for i, pf := range f.Boundary {
		r.Boundary[i] = RawPatch{
			Patch:  pf.Patch,
			Type:   pf.Type,
			Values: encodeValues(pf.Values),
		}
	}
	return r
}

func decodeValues[T tensor.Value[T]](raw [][]float64) ([]T, error) {
	vals := make([]T, len(raw))
	for i, c := range raw {
		v, err := tensor.FromComponents[T](c)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func encodeValues[T tensor.Value[T]](vals []T) [][]float64 {
	raw := make([][]float64, len(vals))
	for i, v := range vals {
		raw[i] = v.Components()
	}
	return raw
}

// Header identifies a persisted field without its values
type Header struct {
	Name  string
	Class string
}
