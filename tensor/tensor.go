package tensor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Value is the capability set the averaging routines need from a field value.
// The Go zero value of every implementation is its additive identity.
type Value[T any] interface {
	Add(o T) T
	Divide(n float64) T
	Components() []float64
	Rank() Rank
	Magnitude() float64
}

type (
	Scalar          float64
	Vector          [3]float64
	SphericalTensor [1]float64
	// SymmTensor stores xx, xy, xz, yy, yz, zz
	SymmTensor [6]float64
	// Tensor stores the nine components in row-major order
	Tensor [9]float64
)

// Zero returns the additive identity of T
func Zero[T Value[T]]() (v T) { return }

// FromComponents builds a value of T from its flat component list
func FromComponents[T Value[T]](c []float64) (v T, err error) {
	if n := v.Rank().NComponents(); len(c) != n {
		return v, fmt.Errorf("%s value needs %d components, got %d", v.Rank(), n, len(c))
	}
	switch p := any(&v).(type) {
	case *Scalar:
		*p = Scalar(c[0])
	case *Vector:
		copy(p[:], c)
	case *SphericalTensor:
		copy(p[:], c)
	case *SymmTensor:
		copy(p[:], c)
	case *Tensor:
		copy(p[:], c)
	default:
		return v, fmt.Errorf("unsupported value type %T", v)
	}
	return
}

func (s Scalar) Add(o Scalar) Scalar     { return s + o }
func (s Scalar) Divide(n float64) Scalar { return s / Scalar(n) }
func (s Scalar) Components() []float64   { return []float64{float64(s)} }
func (s Scalar) Rank() Rank              { return ScalarRank }
func (s Scalar) Magnitude() float64      { return math.Abs(float64(s)) }

func (v Vector) Add(o Vector) Vector {
	floats.Add(v[:], o[:])
	return v
}

func (v Vector) Divide(n float64) Vector {
	divide(v[:], n)
	return v
}

func (v Vector) Components() []float64 { return append([]float64(nil), v[:]...) }
func (v Vector) Rank() Rank            { return VectorRank }
func (v Vector) Magnitude() float64    { return floats.Norm(v[:], 2) }

func (s SphericalTensor) Components() []float64 { return []float64{s[0]} }
func (s SphericalTensor) Rank() Rank            { return SphericalTensorRank }

func (s SphericalTensor) Add(o SphericalTensor) SphericalTensor {
	s[0] += o[0]
	return s
}

func (s SphericalTensor) Divide(n float64) SphericalTensor {
	s[0] /= n
	return s
}

// Full expands the spherical tensor ii*I into a full tensor
func (s SphericalTensor) Full() Tensor {
	return Tensor{s[0], 0, 0, 0, s[0], 0, 0, 0, s[0]}
}

func (s SphericalTensor) Magnitude() float64 { return s.Full().Magnitude() }

func (s SymmTensor) Add(o SymmTensor) SymmTensor {
	floats.Add(s[:], o[:])
	return s
}

func (s SymmTensor) Divide(n float64) SymmTensor {
	divide(s[:], n)
	return s
}

func (s SymmTensor) Components() []float64 { return append([]float64(nil), s[:]...) }
func (s SymmTensor) Rank() Rank            { return SymmTensorRank }

// Full expands the six stored components into a full tensor
func (s SymmTensor) Full() Tensor {
	return Tensor{
		s[0], s[1], s[2],
		s[1], s[3], s[4],
		s[2], s[4], s[5],
	}
}

func (s SymmTensor) Magnitude() float64 { return s.Full().Magnitude() }

func (t Tensor) Add(o Tensor) Tensor {
	floats.Add(t[:], o[:])
	return t
}

func (t Tensor) Divide(n float64) Tensor {
	divide(t[:], n)
	return t
}

func (t Tensor) Components() []float64 { return append([]float64(nil), t[:]...) }
func (t Tensor) Rank() Rank            { return TensorRank }

// Dense views the tensor as a 3x3 gonum matrix
func (t Tensor) Dense() *mat.Dense {
	return mat.NewDense(3, 3, t.Components())
}

// Magnitude is the Frobenius norm
func (t Tensor) Magnitude() float64 { return mat.Norm(t.Dense(), 2) }

// divide is componentwise true division; scaling by 1/n would round differently
func divide(x []float64, n float64) {
	for i := range x {
		x[i] /= n
	}
}
