package mesh

import (
	"errors"
	"fmt"
)

// ErrIncompatible is returned when two meshes cannot be mapped onto each other
var ErrIncompatible = errors.New("incompatible meshes")

// Patch is a named contiguous range of boundary faces
type Patch struct {
	Name  string
	Type  string // Geometric patch type, e.g. patch, wall, symmetryPlane
	Start int    // Global index of the first face
	Size  int    // Number of faces
}

// Mesh is the topology handle the mapper needs: entity counts and the ordered
// boundary patch list
type Mesh struct {
	Name    string
	NCells  int
	NFaces  int
	Patches []Patch
}

// NInternalFaces is the number of faces that precede the first patch
func (m *Mesh) NInternalFaces() int {
	if len(m.Patches) == 0 {
		return m.NFaces
	}
	return m.Patches[0].Start
}

// NBoundaryFaces is the total number of faces over all patches
func (m *Mesh) NBoundaryFaces() (n int) {
	for _, p := range m.Patches {
		n += p.Size
	}
	return
}

// PatchIndex returns the position of the named patch, -1 if absent
func (m *Mesh) PatchIndex(name string) int {
	for i, p := range m.Patches {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks that the patches are ordered, disjoint and lie within the
// face range
func (m *Mesh) Validate() error {
	if m.NCells < 0 || m.NFaces < 0 {
		return fmt.Errorf("mesh %s: invalid sizes nCells=%d nFaces=%d", m.Name, m.NCells, m.NFaces)
	}
	next := 0
	seen := make(map[string]bool, len(m.Patches))
	for i, p := range m.Patches {
		if p.Name == "" {
			return fmt.Errorf("mesh %s: patch %d has no name", m.Name, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("mesh %s: duplicate patch %s", m.Name, p.Name)
		}
		seen[p.Name] = true
		if p.Size < 0 || p.Start < next {
			return fmt.Errorf("mesh %s: patch %s [%d, %d) overlaps preceding faces (next free %d)",
				m.Name, p.Name, p.Start, p.Start+p.Size, next)
		}
		next = p.Start + p.Size
		if next > m.NFaces {
			return fmt.Errorf("mesh %s: patch %s ends at face %d beyond nFaces=%d",
				m.Name, p.Name, next, m.NFaces)
		}
	}
	return nil
}

// CheckCompatible verifies the preconditions for mapping source onto target.
// Patch order is assumed to agree and is not checked.
func CheckCompatible(source, target *Mesh) error {
	if len(source.Patches) != len(target.Patches) {
		return fmt.Errorf("%w: different number of boundaries (%d != %d)",
			ErrIncompatible, len(source.Patches), len(target.Patches))
	}
	return nil
}

func (m *Mesh) String() string {
	return fmt.Sprintf("%s: %d cells, %d faces, %d patches", m.Name, m.NCells, m.NFaces, len(m.Patches))
}
