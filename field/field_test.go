package field

import (
	"testing"

	"github.com/notargets/DualMap/mesh"
	"github.com/notargets/DualMap/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Name:   "target",
		NCells: 2,
		NFaces: 9,
		Patches: []mesh.Patch{
			{Name: "inlet", Type: "patch", Start: 5, Size: 2},
			{Name: "frontAndBack", Type: "empty", Start: 7, Size: 2},
		},
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	m := testMesh()

	like := &PatchField[tensor.Vector]{Type: "fixedValue", Patch: "in", Values: make([]tensor.Vector, 7)}
	pf, err := NewPatchField(f, like, m.Patches[0])
	require.NoError(t, err)
	assert.Equal(t, "fixedValue", pf.Type)
	assert.Equal(t, "inlet", pf.Patch)
	assert.Equal(t, []tensor.Vector{{}, {}}, pf.Values)

	empty := &PatchField[tensor.Vector]{Type: "empty", Patch: "sides"}
	pf, err = NewPatchField(f, empty, m.Patches[1])
	require.NoError(t, err)
	assert.Equal(t, 0, pf.Len())

	_, err = NewPatchField(f, &PatchField[tensor.Vector]{Type: "myCustomBC"}, m.Patches[0])
	assert.Error(t, err)

	f.Register(PatchKind{Type: "myCustomBC"})
	_, err = NewPatchField(f, &PatchField[tensor.Vector]{Type: "myCustomBC"}, m.Patches[0])
	assert.NoError(t, err)
	assert.Contains(t, f.Types(), "myCustomBC")
}

func TestCheckSizes(t *testing.T) {
	m := testMesh()
	f := &Field[tensor.Scalar]{
		Name:     "p",
		Internal: []tensor.Scalar{1, 2},
		Boundary: []*PatchField[tensor.Scalar]{
			{Type: "zeroGradient", Patch: "inlet", Values: []tensor.Scalar{1, 2}},
			{Type: "empty", Patch: "frontAndBack"},
		},
	}
	require.NoError(t, f.CheckSizes(m, nil))
	require.NoError(t, f.CheckSizes(m, NewFactory()))

	f.Internal = f.Internal[:1]
	assert.Error(t, f.CheckSizes(m, nil))
	f.Internal = []tensor.Scalar{1, 2}

	// a value-carrying patch field without values
	f.Boundary[0].Values = nil
	assert.NoError(t, f.CheckSizes(m, nil))
	assert.Error(t, f.CheckSizes(m, NewFactory()))
	f.Boundary[0].Values = []tensor.Scalar{1, 2}

	f.Boundary[0].Type = "unknownType"
	assert.Error(t, f.CheckSizes(m, NewFactory()))
	f.Boundary[0].Type = "zeroGradient"

	f.Boundary[0].Patch = "outlet"
	assert.Error(t, f.CheckSizes(m, nil))
}

func TestRenameAndInterpolatedName(t *testing.T) {
	f := &Field[tensor.Tensor]{Name: "R"}
	g := f.Rename(InterpolatedName(f.Name))
	assert.Equal(t, "interpolated(R)", g.Name)
	assert.Equal(t, "R", f.Name)
	assert.Equal(t, "volTensorField", g.ClassName())
}

func TestEncodeDecode(t *testing.T) {
	raw := &Raw{
		Class:      "volSymmTensorField",
		Name:       "sigma",
		Dimensions: "[1 -1 -2 0 0 0 0]",
		Internal:   [][]float64{{1, 2, 3, 4, 5, 6}},
		Boundary: []RawPatch{
			{Patch: "wall", Type: "calculated", Values: [][]float64{{0, 0, 0, 0, 0, 1}}},
		},
	}
	f, err := Decode[tensor.SymmTensor](raw)
	require.NoError(t, err)
	assert.Equal(t, tensor.SymmTensor{1, 2, 3, 4, 5, 6}, f.Internal[0])
	assert.Equal(t, "calculated", f.Boundary[0].Type)
	assert.Equal(t, raw, Encode(f))

	_, err = Decode[tensor.Vector](raw)
	assert.Error(t, err, "class mismatch")

	raw.Internal[0] = []float64{1}
	_, err = Decode[tensor.SymmTensor](raw)
	assert.Error(t, err, "wrong component count")
}

func TestAlign(t *testing.T) {
	m := testMesh()
	f := &Field[tensor.Scalar]{
		Name:     "p",
		Internal: []tensor.Scalar{1, 2},
		Boundary: []*PatchField[tensor.Scalar]{
			{Type: "empty", Patch: "frontAndBack"},
			{Type: "zeroGradient", Patch: "inlet", Values: []tensor.Scalar{1, 2}},
		},
	}
	require.NoError(t, f.Align(m))
	assert.Equal(t, "inlet", f.Boundary[0].Patch)
	assert.Equal(t, "frontAndBack", f.Boundary[1].Patch)

	f.Boundary[1].Patch = "outlet"
	assert.Error(t, f.Align(m))
	f.Boundary = f.Boundary[:1]
	assert.Error(t, f.Align(m))
}
