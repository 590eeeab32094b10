package mesh

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/notargets/gocfd/DG3D/mesh/readers"
)

// ReadMeshFile builds a Mesh from a Gambit (.neu), Gmsh (.msh) or SU2 file.
// Boundary faces are laid out after the internal faces, one patch per
// boundary tag in name order.
func ReadMeshFile(path string) (*Mesh, error) {
	msh, err := readers.ReadMeshFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mesh file %s: %w", path, err)
	}

	boundary := make(map[string]int)
	for _, name := range msh.BoundaryTags {
		boundary[name] = len(msh.BoundaryElements[name])
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return FromTopology(name, msh.NumElements, msh.NumFaces, boundary)
}

// FromTopology lays out patches of the given sizes at the end of the face
// range, sorted by name
func FromTopology(name string, nCells, nFaces int, boundary map[string]int) (*Mesh, error) {
	names := make([]string, 0, len(boundary))
	nBoundary := 0
	for n, size := range boundary {
		names = append(names, n)
		nBoundary += size
	}
	sort.Strings(names)

	start := nFaces - nBoundary
	if start < 0 {
		return nil, fmt.Errorf("mesh %s: %d boundary faces exceed nFaces=%d", name, nBoundary, nFaces)
	}

	m := &Mesh{
		Name:    name,
		NCells:  nCells,
		NFaces:  nFaces,
		Patches: make([]Patch, 0, len(names)),
	}
	for _, n := range names {
		m.Patches = append(m.Patches, Patch{
			Name:  n,
			Type:  patchTypeFor(n),
			Start: start,
			Size:  boundary[n],
		})
		start += boundary[n]
	}
	return m, m.Validate()
}

// patchTypeFor infers a geometric patch type from a boundary tag name
func patchTypeFor(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "wall"):
		return "wall"
	case strings.Contains(n, "symm"):
		return "symmetryPlane"
	case strings.Contains(n, "empty"):
		return "empty"
	}
	return "patch"
}
