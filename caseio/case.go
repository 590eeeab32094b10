package caseio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/notargets/DualMap/mesh"
)

// ErrNotFound is returned when a required object is absent from a case
var ErrNotFound = errors.New("object not found")

const (
	constantDir = "constant"
	polyMeshDir = "polyMesh"
	boundaryObj = "boundary"
)

// meshFiles are tried in order when a case has no boundary file
var meshFiles = []string{"mesh.neu", "mesh.msh", "mesh.su2"}

// Case is a case directory: time directories of fields plus the mesh
// description under constant/polyMesh
type Case struct {
	Root string
}

// Open returns the case rooted at dir
func Open(dir string) (*Case, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open case %s: %w", dir, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("case %s is not a directory", dir)
	}
	return &Case{Root: dir}, nil
}

// Name is the base name of the case directory
func (c *Case) Name() string { return filepath.Base(filepath.Clean(c.Root)) }

func (c *Case) polyMeshPath(name string) string {
	return filepath.Join(c.Root, constantDir, polyMeshDir, name)
}

func (c *Case) timePath(time string, name string) string {
	return filepath.Join(c.Root, time, name)
}

// Times lists the time directories in increasing numeric order
func (c *Case) Times() ([]string, error) {
	entries, err := os.ReadDir(c.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list case %s: %w", c.Root, err)
	}
	type timeDir struct {
		name  string
		value float64
	}
	var dirs []timeDir
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := strconv.ParseFloat(e.Name(), 64)
		if err != nil {
			continue
		}
		dirs = append(dirs, timeDir{e.Name(), v})
	}
	sort.SliceStable(dirs, func(i, j int) bool { return dirs[i].value < dirs[j].value })

	times := make([]string, len(dirs))
	for i, d := range dirs {
		times[i] = d.name
	}
	return times, nil
}

// LatestTime returns the last time directory
func (c *Case) LatestTime() (string, error) {
	times, err := c.Times()
	if err != nil {
		return "", err
	}
	if len(times) == 0 {
		return "", fmt.Errorf("%w: no time directories in %s", ErrNotFound, c.Root)
	}
	return times[len(times)-1], nil
}

type boundaryFile struct {
	NCells  int          `yaml:"nCells"`
	NFaces  int          `yaml:"nFaces"`
	Patches []patchEntry `yaml:"patches"`
}

type patchEntry struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	StartFace int    `yaml:"startFace"`
	NFaces    int    `yaml:"nFaces"`
}

// Mesh reads constant/polyMesh/boundary, or failing that a mesh file that the
// gocfd readers understand
func (c *Case) Mesh() (*mesh.Mesh, error) {
	path := c.polyMeshPath(boundaryObj)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		for _, mf := range meshFiles {
			p := c.polyMeshPath(mf)
			if _, err := os.Stat(p); err == nil {
				m, err := mesh.ReadMeshFile(p)
				if err != nil {
					return nil, err
				}
				m.Name = c.Name()
				return m, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var bf boundaryFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	m := &mesh.Mesh{
		Name:    c.Name(),
		NCells:  bf.NCells,
		NFaces:  bf.NFaces,
		Patches: make([]mesh.Patch, len(bf.Patches)),
	}
	for i, p := range bf.Patches {
		m.Patches[i] = mesh.Patch{Name: p.Name, Type: p.Type, Start: p.StartFace, Size: p.NFaces}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteMesh writes the boundary description of m
func (c *Case) WriteMesh(m *mesh.Mesh) error {
	bf := boundaryFile{
		NCells:  m.NCells,
		NFaces:  m.NFaces,
		Patches: make([]patchEntry, len(m.Patches)),
	}
	for i, p := range m.Patches {
		bf.Patches[i] = patchEntry{Name: p.Name, Type: p.Type, StartFace: p.Start, NFaces: p.Size}
	}
	return writeYAML(c.polyMeshPath(boundaryObj), bf)
}

func writeYAML(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// readYAML returns an error wrapping ErrNotFound when path does not exist
func readYAML(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
