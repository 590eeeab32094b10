package mapper

import (
	"fmt"

	"github.com/notargets/DualMap/correspondence"
	"github.com/notargets/DualMap/field"
	"github.com/notargets/DualMap/mesh"
	"github.com/notargets/DualMap/tensor"
)

// Mapper transfers fields from a source mesh onto its dual by unweighted
// averaging over the cell and face correspondence maps. The meshes and maps
// are borrowed and must not change while the Mapper is in use.
type Mapper struct {
	Source  *mesh.Mesh
	Target  *mesh.Mesh
	CellMap *correspondence.Map
	FaceMap *correspondence.Map
	Factory *field.Factory
}

// New checks the mapping preconditions and returns a Mapper
func New(source, target *mesh.Mesh, cellMap, faceMap *correspondence.Map, factory *field.Factory) (*Mapper, error) {
	if err := mesh.CheckCompatible(source, target); err != nil {
		return nil, err
	}
	if cellMap.Len() != target.NCells {
		return nil, fmt.Errorf("%w: %s does not match target mesh (%d entries, %d cells)",
			correspondence.ErrSizeMismatch, cellMap.Name(), cellMap.Len(), target.NCells)
	}
	if faceMap.Len() != target.NFaces {
		return nil, fmt.Errorf("%w: %s does not match target mesh (%d entries, %d faces)",
			correspondence.ErrSizeMismatch, faceMap.Name(), faceMap.Len(), target.NFaces)
	}
	if factory == nil {
		factory = field.NewFactory()
	}
	return &Mapper{
		Source:  source,
		Target:  target,
		CellMap: cellMap,
		FaceMap: faceMap,
		Factory: factory,
	}, nil
}

// Verify runs the full index check on both maps. Empty face entries are
// allowed; empty cell entries are not. Faces of a target patch may only
// draw from the matching source patch.
func (m *Mapper) Verify() error {
	if err := m.CellMap.Verify(m.Target.NCells, m.Source.NCells, false); err != nil {
		return err
	}
	if err := m.FaceMap.Verify(m.Target.NFaces, m.Source.NFaces, true); err != nil {
		return err
	}
	for p, tp := range m.Target.Patches {
		sp := m.Source.Patches[p]
		for f := tp.Start; f < tp.Start+tp.Size; f++ {
			for _, s := range m.FaceMap.Sources(f) {
				if s < sp.Start || s >= sp.Start+sp.Size {
					return fmt.Errorf("%s: face %d of patch %s maps to face %d outside source patch %s [%d, %d)",
						m.FaceMap.Name(), f, tp.Name, s, sp.Name, sp.Start, sp.Start+sp.Size)
				}
			}
		}
	}
	return nil
}

// Average returns the mean of values[s-offset] over every s in sources. An
// empty sources set divides by zero.
func Average[T tensor.Value[T]](sources []int, offset int, values []T) T {
	var acc T
	for _, s := range sources {
		acc = acc.Add(values[s-offset])
	}
	return acc.Divide(float64(len(sources)))
}

// MapInternal fills target[t] with the average of source over cellMap[t]
func MapInternal[T tensor.Value[T]](cellMap *correspondence.Map, source, target []T) {
	for t := range target {
		target[t] = Average(cellMap.Sources(t), 0, source)
	}
}

// MapPatch fills the target patch values from the source patch values. Face
// map entries are indexed by global target face and hold global source faces;
// both are shifted by the owning patch's start face.
func MapPatch[T tensor.Value[T]](faceMap *correspondence.Map,
	source *field.PatchField[T], sourceStart int,
	target *field.PatchField[T], targetStart int) {
	for f := range target.Values {
		target.Values[f] = Average(faceMap.Sources(f+targetStart), sourceStart, source.Values)
	}
}

// Interpolate maps src onto the target mesh. The result is named
// interpolated(<name>).
func Interpolate[T tensor.Value[T]](m *Mapper, src *field.Field[T]) (*field.Field[T], error) {
	if len(src.Boundary) != len(m.Source.Patches) {
		return nil, fmt.Errorf("field %s has %d patch fields, source mesh has %d patches",
			src.Name, len(src.Boundary), len(m.Source.Patches))
	}

	internal := make([]T, m.Target.NCells)
	MapInternal(m.CellMap, src.Internal, internal)

	boundary := make([]*field.PatchField[T], len(src.Boundary))
	for i, sp := range src.Boundary {
		sourceStart := m.Source.Patches[i].Start
		targetPatch := m.Target.Patches[i]

		tp, err := field.NewPatchField(m.Factory, sp, targetPatch)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", src.Name, err)
		}
		MapPatch(m.FaceMap, sp, sourceStart, tp, targetPatch.Start)
		boundary[i] = tp
	}

	return &field.Field[T]{
		Name:       field.InterpolatedName(src.Name),
		Dimensions: src.Dimensions,
		Internal:   internal,
		Boundary:   boundary,
	}, nil
}
