package field

import (
	"fmt"
	"sort"

	"github.com/notargets/DualMap/mesh"
	"github.com/notargets/DualMap/tensor"
)

// PatchKind describes the capabilities of a boundary condition type
type PatchKind struct {
	Type string
	// Valueless kinds (empty) carry no face values regardless of patch size
	Valueless bool
}

// Factory constructs patch fields by boundary condition type tag
type Factory struct {
	kinds map[string]PatchKind
}

// StandardPatchTypes are registered by NewFactory
var StandardPatchTypes = []string{
	"calculated",
	"fixedValue",
	"fixedGradient",
	"zeroGradient",
	"mixed",
	"slip",
	"symmetryPlane",
	"symmetry",
	"wedge",
	"cyclic",
	"processor",
	"inletOutlet",
	"outletInlet",
	"totalPressure",
	"totalTemperature",
	"pressureInletOutletVelocity",
	"fixedFluxPressure",
	"noSlip",
	"movingWallVelocity",
	"waveTransmissive",
	"supersonicFreestream",
	"compressible::alphatWallFunction",
	"epsilonWallFunction",
	"kqRWallFunction",
	"nutkWallFunction",
	"omegaWallFunction",
}

// NewFactory returns a Factory with the standard patch types registered
func NewFactory() *Factory {
	f := &Factory{kinds: make(map[string]PatchKind)}
	for _, t := range StandardPatchTypes {
		f.Register(PatchKind{Type: t})
	}
	f.Register(PatchKind{Type: "empty", Valueless: true})
	return f
}

// Register adds or replaces a patch kind
func (f *Factory) Register(k PatchKind) {
	f.kinds[k.Type] = k
}

// Lookup returns the kind registered for a type tag
func (f *Factory) Lookup(typeName string) (PatchKind, error) {
	k, ok := f.kinds[typeName]
	if !ok {
		return PatchKind{}, fmt.Errorf("unknown patchField type %q, valid types are %v", typeName, f.Types())
	}
	return k, nil
}

// Types lists the registered type tags in sorted order
func (f *Factory) Types() []string {
	types := make([]string, 0, len(f.kinds))
	for t := range f.kinds {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// NewPatchField constructs a zero-valued patch field of the same type as like,
// placed on patch p. No values are read.
func NewPatchField[T tensor.Value[T]](f *Factory, like *PatchField[T], p mesh.Patch) (*PatchField[T], error) {
	k, err := f.Lookup(like.Type)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", p.Name, err)
	}
	n := p.Size
	if k.Valueless {
		n = 0
	}
	return &PatchField[T]{
		Type:   k.Type,
		Patch:  p.Name,
		Values: make([]T, n),
	}, nil
}
