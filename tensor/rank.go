package tensor

import (
	"fmt"
)

// Rank identifies the algebraic category of a field value
type Rank uint8

const (
	ScalarRank Rank = iota
	VectorRank
	SphericalTensorRank
	SymmTensorRank
	TensorRank
)

// Ranks lists every supported rank in the order fields are mapped
var Ranks = []Rank{
	ScalarRank,
	VectorRank,
	SphericalTensorRank,
	SymmTensorRank,
	TensorRank,
}

func (r Rank) String() string {
	switch r {
	case ScalarRank:
		return "scalar"
	case VectorRank:
		return "vector"
	case SphericalTensorRank:
		return "sphericalTensor"
	case SymmTensorRank:
		return "symmTensor"
	case TensorRank:
		return "tensor"
	}
	return fmt.Sprintf("Rank(%d)", uint8(r))
}

// ClassName returns the persisted class tag of a volume field of this rank,
// e.g. volScalarField
func (r Rank) ClassName() string {
	switch r {
	case ScalarRank:
		return "volScalarField"
	case VectorRank:
		return "volVectorField"
	case SphericalTensorRank:
		return "volSphericalTensorField"
	case SymmTensorRank:
		return "volSymmTensorField"
	case TensorRank:
		return "volTensorField"
	}
	return ""
}

// NComponents is the number of float64 components stored per value
func (r Rank) NComponents() int {
	switch r {
	case ScalarRank, SphericalTensorRank:
		return 1
	case VectorRank:
		return 3
	case SymmTensorRank:
		return 6
	case TensorRank:
		return 9
	}
	return 0
}

// ParseClass converts a persisted class tag back into a Rank
func ParseClass(class string) (Rank, error) {
	for _, r := range Ranks {
		if r.ClassName() == class {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unsupported field class %q", class)
}

// ParseRank accepts either a rank name (vector) or a class tag (volVectorField)
func ParseRank(name string) (Rank, error) {
	for _, r := range Ranks {
		if r.String() == name {
			return r, nil
		}
	}
	return ParseClass(name)
}
