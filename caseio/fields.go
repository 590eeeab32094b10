package caseio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/notargets/DualMap/field"
	"github.com/notargets/DualMap/tensor"
)

type fieldFile struct {
	Class         string            `yaml:"class"`
	Name          string            `yaml:"name"`
	Dimensions    string            `yaml:"dimensions,omitempty"`
	InternalField valueList         `yaml:"internalField"`
	BoundaryField []patchFieldEntry `yaml:"boundaryField"`
}

type patchFieldEntry struct {
	Patch string    `yaml:"patch"`
	Type  string    `yaml:"type"`
	Value valueList `yaml:"value,omitempty"`
}

type fieldHeader struct {
	Class string `yaml:"class"`
	Name  string `yaml:"name"`
}

// ListFields returns the volume fields stored in a time directory, sorted by
// name. Files whose class is not a volume field class are skipped.
func (c *Case) ListFields(time string) ([]field.Header, error) {
	dir := c.timePath(time, "")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list time %s of %s: %w", time, c.Root, err)
	}
	var headers []field.Header
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		h, err := readHeader(c.timePath(time, e.Name()))
		if err != nil {
			continue
		}
		if _, err := tensor.ParseClass(h.Class); err != nil {
			continue
		}
		headers = append(headers, field.Header{Name: e.Name(), Class: h.Class})
	}
	sort.Slice(headers, func(i, j int) bool { return headers[i].Name < headers[j].Name })
	return headers, nil
}

// readHeader decodes the class and name of a field file from its top-level
// header lines, stopping before the values. Files without block-style
// header lines are parsed whole.
func readHeader(path string) (fieldHeader, error) {
	var h fieldHeader
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	var (
		header   bytes.Buffer
		seen     int
		complete bool
		r        = bufio.NewReader(f)
	)
	for !complete {
		line, err := r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			// a header line never gets this long
			break
		}
		key, _, isKey := bytes.Cut(line, []byte(":"))
		top := isKey && len(line) > 0 && line[0] != ' ' && line[0] != '\t' && line[0] != '-' && line[0] != '#'
		if top {
			switch string(bytes.TrimSpace(key)) {
			case "class", "name":
				header.Write(line)
				if line[len(line)-1] != '\n' {
					header.WriteByte('\n')
				}
				seen++
				complete = seen == 2
			case "internalField", "boundaryField":
				complete = true
			}
		}
		if err != nil {
			break
		}
	}
	if seen == 0 {
		return h, readYAML(path, &h)
	}
	if err := yaml.Unmarshal(header.Bytes(), &h); err != nil {
		return h, fmt.Errorf("failed to parse header of %s: %w", path, err)
	}
	return h, nil
}

// ReadField reads a field file from a time directory. The field takes its
// name from the file; a name recorded inside the file must agree with it.
func (c *Case) ReadField(time, name string) (*field.Raw, error) {
	var ff fieldFile
	if err := readYAML(c.timePath(time, name), &ff); err != nil {
		return nil, err
	}
	if ff.Name != "" && ff.Name != name {
		return nil, fmt.Errorf("field file %s records name %q", c.timePath(time, name), ff.Name)
	}
	r := &field.Raw{
		Class:      ff.Class,
		Name:       name,
		Dimensions: ff.Dimensions,
		Internal:   ff.InternalField,
		Boundary:   make([]field.RawPatch, len(ff.BoundaryField)),
	}
	for i, p := range ff.BoundaryField {
		r.Boundary[i] = field.RawPatch{Patch: p.Patch, Type: p.Type, Values: p.Value}
	}
	return r, nil
}

// WriteField writes r into a time directory under its name
func (c *Case) WriteField(time string, r *field.Raw) error {
	if r.Name == "" {
		return errors.New("cannot write a field without a name")
	}
	ff := fieldFile{
		Class:         r.Class,
		Name:          r.Name,
		Dimensions:    r.Dimensions,
		InternalField: r.Internal,
		BoundaryField: make([]patchFieldEntry, len(r.Boundary)),
	}
	for i, p := range r.Boundary {
		ff.BoundaryField[i] = patchFieldEntry{Patch: p.Patch, Type: p.Type, Value: p.Values}
	}
	return writeYAML(c.timePath(time, r.Name), ff)
}

// valueList holds field values as component lists. Single component values
// are written as a flat list, wider values as one flow sequence per value.
type valueList [][]float64

func (v valueList) MarshalYAML() (interface{}, error) {
	flat := true
	for _, c := range v {
		if len(c) != 1 {
			flat = false
			break
		}
	}
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range v {
		if flat {
			n.Content = append(n.Content, floatNode(c[0]))
			continue
		}
		inner := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, x := range c {
			inner.Content = append(inner.Content, floatNode(x))
		}
		n.Content = append(n.Content, inner)
	}
	return n, nil
}

func (v *valueList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of values", n.Line)
	}
	out := make(valueList, len(n.Content))
	for i, c := range n.Content {
		switch c.Kind {
		case yaml.ScalarNode:
			var x float64
			if err := c.Decode(&x); err != nil {
				return err
			}
			out[i] = []float64{x}
		case yaml.SequenceNode:
			var xs []float64
			if err := c.Decode(&xs); err != nil {
				return err
			}
			out[i] = xs
		default:
			return fmt.Errorf("line %d: expected a number or a list of numbers", c.Line)
		}
	}
	*v = out
	return nil
}

func floatNode(x float64) *yaml.Node {
	var s string
	switch {
	case math.IsNaN(x):
		s = ".nan"
	case math.IsInf(x, 1):
		s = ".inf"
	case math.IsInf(x, -1):
		s = "-.inf"
	default:
		s = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}
