package caseio

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/notargets/DualMap/correspondence"
)

// compactMap is the on-disk form of a correspondence map: the sources of
// target t are indices[offsets[t]:offsets[t+1]]
type compactMap struct {
	Offsets []int `yaml:"offsets,flow"`
	Indices []int `yaml:"indices,flow"`
}

// ReadCorrespondence loads a correspondence map from constant/polyMesh. Both
// the compact form and a plain list of lists are accepted. A missing map is an
// error wrapping ErrNotFound.
func (c *Case) ReadCorrespondence(name string) (*correspondence.Builder, error) {
	path := c.polyMeshPath(name)
	var doc yaml.Node
	if err := readYAML(path, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%s: empty correspondence map", path)
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var entries [][]int
		if err := root.Decode(&entries); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return correspondence.NewBuilder(name, entries), nil
	case yaml.MappingNode:
		var cm compactMap
		if err := root.Decode(&cm); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		m, err := correspondence.FromCompact(name, cm.Offsets, cm.Indices)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return correspondence.NewBuilder(name, m.Entries()), nil
	}
	return nil, fmt.Errorf("%s: expected a list of lists or offsets/indices", path)
}

// WriteCorrespondence stores m in compact form under its name
func (c *Case) WriteCorrespondence(m *correspondence.Map) error {
	offsets, indices := m.Compact()
	return writeYAML(c.polyMeshPath(m.Name()), compactMap{Offsets: offsets, Indices: indices})
}

// ReadPermutation loads a newToOld renumbering list if one is present. An
// absent list yields nil without error.
func (c *Case) ReadPermutation(name string) ([]int, error) {
	var perm []int
	err := readYAML(c.polyMeshPath(name), &perm)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if perm == nil {
		perm = []int{}
	}
	return perm, nil
}

// WritePermutation stores a newToOld renumbering list
func (c *Case) WritePermutation(name string, newToOld []int) error {
	return writeYAML(c.polyMeshPath(name), newToOld)
}
