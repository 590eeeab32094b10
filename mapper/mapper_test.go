package mapper

import (
	"errors"
	"math"
	"testing"

	"github.com/notargets/DualMap/correspondence"
	"github.com/notargets/DualMap/field"
	"github.com/notargets/DualMap/mesh"
	"github.com/notargets/DualMap/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeze(name string, entries [][]int) *correspondence.Map {
	return correspondence.NewBuilder(name, entries).Freeze()
}

// onePatchPair builds the meshes of the single patch scenario: the source
// patch starts at face 100, the target patch at face 50
func onePatchPair() (*mesh.Mesh, *mesh.Mesh, *correspondence.Map, *correspondence.Map) {
	source := &mesh.Mesh{
		Name: "source", NCells: 4, NFaces: 102,
		Patches: []mesh.Patch{{Name: "wall", Type: "wall", Start: 100, Size: 2}},
	}
	target := &mesh.Mesh{
		Name: "target", NCells: 2, NFaces: 51,
		Patches: []mesh.Patch{{Name: "wall", Type: "wall", Start: 50, Size: 1}},
	}
	faces := make([][]int, 51)
	faces[50] = []int{100, 101}
	return source, target,
		freeze("cellDualMap", [][]int{{0, 1}, {2, 3}}),
		freeze("faceDualMap", faces)
}

func TestInterpolateScalarScenario(t *testing.T) {
	source, target, cells, faces := onePatchPair()
	m, err := New(source, target, cells, faces, nil)
	require.NoError(t, err)
	require.NoError(t, m.Verify())

	src := &field.Field[tensor.Scalar]{
		Name:       "T",
		Dimensions: "[0 0 0 1 0 0 0]",
		Internal:   []tensor.Scalar{10, 20, 30, 40},
		Boundary: []*field.PatchField[tensor.Scalar]{
			{Type: "fixedValue", Patch: "wall", Values: []tensor.Scalar{2.0, 4.0}},
		},
	}
	out, err := Interpolate(m, src)
	require.NoError(t, err)

	assert.Equal(t, "interpolated(T)", out.Name)
	assert.Equal(t, src.Dimensions, out.Dimensions)
	assert.Equal(t, []tensor.Scalar{15, 35}, out.Internal)
	require.Len(t, out.Boundary, 1)
	assert.Equal(t, "fixedValue", out.Boundary[0].Type)
	assert.Equal(t, "wall", out.Boundary[0].Patch)
	assert.Equal(t, []tensor.Scalar{3.0}, out.Boundary[0].Values)
	assert.NoError(t, out.CheckSizes(target, m.Factory))
}

func TestIdentityMapReproducesInput(t *testing.T) {
	n := 5
	entries := make([][]int, n)
	src := make([]tensor.Vector, n)
	for i := range entries {
		entries[i] = []int{i}
		src[i] = tensor.Vector{float64(i) * 0.1, -float64(i) / 3, 7}
	}
	dst := make([]tensor.Vector, n)
	MapInternal(freeze("identity", entries), src, dst)
	assert.Equal(t, src, dst)
}

func TestAverageOfUniformValuesIsExact(t *testing.T) {
	sources := []int{0, 1, 2}
	assert.Equal(t, tensor.Scalar(0.75), Average(sources, 0, []tensor.Scalar{0.75, 0.75, 0.75}))

	v := tensor.Vector{0.5, -1.25, 3}
	assert.Equal(t, v, Average(sources, 0, []tensor.Vector{v, v, v}))

	sph := tensor.SphericalTensor{2.5}
	assert.Equal(t, sph, Average(sources, 0, []tensor.SphericalTensor{sph, sph, sph}))

	st := tensor.SymmTensor{1, 0.5, -2, 4, 0.25, 8}
	assert.Equal(t, st, Average(sources, 0, []tensor.SymmTensor{st, st, st}))

	tt := tensor.Tensor{1, 2, 3, 4, 5, 6, 7, 8, 9}
	assert.Equal(t, tt, Average(sources, 0, []tensor.Tensor{tt, tt, tt}))
}

func TestAverageIsComponentwiseMean(t *testing.T) {
	vals := []tensor.Tensor{
		{1, 2, 3, 4, 5, 6, 7, 8, 9},
		{3, 2, 1, 0, -1, -2, -3, -4, -5},
		{2, 2, 2, 2, 2, 2, 2, 2, 2},
		{100, 0, 0, 0, 0, 0, 0, 0, 0},
	}
	got := Average([]int{11, 10, 12}, 10, vals)
	want := tensor.Tensor{2, 2, 2, 2, 2, 2, 2, 2, 2}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-14)
	}
}

func TestEmptyEntryDividesByZero(t *testing.T) {
	got := Average(nil, 0, []tensor.Scalar{1})
	assert.True(t, math.IsNaN(float64(got)))
}

// twoPatchPair builds a two patch mesh pair whose internal face blocks are
// shifted by sShift and tShift faces
func twoPatchPair(sShift, tShift int) (*mesh.Mesh, *mesh.Mesh, *correspondence.Map, *correspondence.Map) {
	source := &mesh.Mesh{
		Name: "source", NCells: 2, NFaces: 10 + sShift,
		Patches: []mesh.Patch{
			{Name: "inlet", Type: "patch", Start: 4 + sShift, Size: 3},
			{Name: "outlet", Type: "patch", Start: 7 + sShift, Size: 3},
		},
	}
	target := &mesh.Mesh{
		Name: "target", NCells: 1, NFaces: 5 + tShift,
		Patches: []mesh.Patch{
			{Name: "inlet", Type: "patch", Start: 1 + tShift, Size: 2},
			{Name: "outlet", Type: "patch", Start: 3 + tShift, Size: 2},
		},
	}
	// patch local correspondence: target local -> source local
	local := [][][]int{
		{{0, 1}, {2}},
		{{2}, {0, 1, 2}},
	}
	faces := make([][]int, target.NFaces)
	for p := range local {
		for f, sources := range local[p] {
			g := make([]int, len(sources))
			for i, s := range sources {
				g[i] = s + source.Patches[p].Start
			}
			faces[f+target.Patches[p].Start] = g
		}
	}
	return source, target, freeze("cellDualMap", [][]int{{0, 1}}), freeze("faceDualMap", faces)
}

func TestBoundaryMappingIsPatchLocal(t *testing.T) {
	src := &field.Field[tensor.Vector]{
		Name:     "U",
		Internal: []tensor.Vector{{1, 0, 0}, {3, 0, 0}},
		Boundary: []*field.PatchField[tensor.Vector]{
			{Type: "fixedValue", Patch: "inlet", Values: []tensor.Vector{{1, 1, 1}, {3, 3, 3}, {8, 0, 0}}},
			{Type: "zeroGradient", Patch: "outlet", Values: []tensor.Vector{{0, 6, 0}, {0, 0, 6}, {6, 0, 0}}},
		},
	}

	var results []*field.Field[tensor.Vector]
	for _, shift := range [][2]int{{0, 0}, {20, 3}, {5, 40}} {
		source, target, cells, faces := twoPatchPair(shift[0], shift[1])
		m, err := New(source, target, cells, faces, nil)
		require.NoError(t, err)
		out, err := Interpolate(m, src)
		require.NoError(t, err)
		results = append(results, out)
	}

	first := results[0]
	assert.Equal(t, []tensor.Vector{{2, 0, 0}}, first.Internal)
	assert.Equal(t, []tensor.Vector{{2, 2, 2}, {8, 0, 0}}, first.Boundary[0].Values)
	assert.Equal(t, []tensor.Vector{{6, 0, 0}, {2, 2, 2}}, first.Boundary[1].Values)
	for _, r := range results[1:] {
		assert.Equal(t, first, r)
	}
}

func TestEmptyPatchIsNotMapped(t *testing.T) {
	source := &mesh.Mesh{Name: "s", NCells: 1, NFaces: 4,
		Patches: []mesh.Patch{{Name: "sides", Type: "empty", Start: 2, Size: 2}}}
	target := &mesh.Mesh{Name: "t", NCells: 1, NFaces: 3,
		Patches: []mesh.Patch{{Name: "sides", Type: "empty", Start: 1, Size: 2}}}
	m, err := New(source, target, freeze("c", [][]int{{0}}), freeze("f", make([][]int, 3)), nil)
	require.NoError(t, err)

	out, err := Interpolate(m, &field.Field[tensor.Scalar]{
		Name:     "p",
		Internal: []tensor.Scalar{4},
		Boundary: []*field.PatchField[tensor.Scalar]{{Type: "empty", Patch: "sides"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Boundary[0].Len())
	assert.Equal(t, []tensor.Scalar{4}, out.Internal)
}

func TestNewChecksPreconditions(t *testing.T) {
	source, target, cells, faces := onePatchPair()

	_, err := New(source, target, faces, faces, nil)
	assert.True(t, errors.Is(err, correspondence.ErrSizeMismatch))

	_, err = New(source, target, cells, cells, nil)
	assert.True(t, errors.Is(err, correspondence.ErrSizeMismatch))

	target.Patches = nil
	_, err = New(source, target, cells, faces, nil)
	assert.True(t, errors.Is(err, mesh.ErrIncompatible))
}

func TestVerifyRejectsEmptyCellEntry(t *testing.T) {
	source, target, _, faces := onePatchPair()
	m, err := New(source, target, freeze("cellDualMap", [][]int{{0, 1}, {}}), faces, nil)
	require.NoError(t, err)
	assert.Error(t, m.Verify())
}

func TestVerifyRejectsFaceOutsidePatch(t *testing.T) {
	source := &mesh.Mesh{
		Name: "source", NCells: 1, NFaces: 4,
		Patches: []mesh.Patch{
			{Name: "a", Type: "patch", Start: 2, Size: 1},
			{Name: "b", Type: "patch", Start: 3, Size: 1},
		},
	}
	target := &mesh.Mesh{
		Name: "target", NCells: 1, NFaces: 3,
		Patches: []mesh.Patch{
			{Name: "a", Type: "patch", Start: 1, Size: 1},
			{Name: "b", Type: "patch", Start: 2, Size: 1},
		},
	}
	cells := freeze("cellDualMap", [][]int{{0}})

	m, err := New(source, target, cells, freeze("faceDualMap", [][]int{{0, 1}, {2}, {3}}), nil)
	require.NoError(t, err)
	require.NoError(t, m.Verify())

	// a face of patch a drawing from patch b
	m, err = New(source, target, cells, freeze("faceDualMap", [][]int{{0}, {3}, {3}}), nil)
	require.NoError(t, err)
	assert.Error(t, m.Verify())

	// a boundary face drawing from an internal face
	m, err = New(source, target, cells, freeze("faceDualMap", [][]int{{0}, {2}, {1}}), nil)
	require.NoError(t, err)
	assert.Error(t, m.Verify())
}

func TestInterpolateErrors(t *testing.T) {
	source, target, cells, faces := onePatchPair()
	m, err := New(source, target, cells, faces, nil)
	require.NoError(t, err)

	_, err = Interpolate(m, &field.Field[tensor.Scalar]{Name: "p", Internal: make([]tensor.Scalar, 4)})
	assert.Error(t, err, "patch count")

	_, err = Interpolate(m, &field.Field[tensor.Scalar]{
		Name:     "p",
		Internal: make([]tensor.Scalar, 4),
		Boundary: []*field.PatchField[tensor.Scalar]{{Type: "noSuchType", Patch: "wall", Values: make([]tensor.Scalar, 2)}},
	})
	assert.Error(t, err, "unknown patch type")
}
