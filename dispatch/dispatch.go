package dispatch

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/DualMap/field"
	"github.com/notargets/DualMap/mapper"
	"github.com/notargets/DualMap/tensor"
)

// Source enumerates and reads persisted fields of the source mesh
type Source interface {
	ListFields(time string) ([]field.Header, error)
	ReadField(time, name string) (*field.Raw, error)
}

// Sink persists mapped fields for the target mesh
type Sink interface {
	WriteField(time string, r *field.Raw) error
}

// Dispatcher maps every volume field found at SourceTime, one rank at a time
type Dispatcher struct {
	Mapper     *mapper.Mapper
	Source     Source
	SourceTime string
	Target     Sink
	TargetTime string

	// Ranks restricts the mapped ranks; nil maps all of tensor.Ranks
	Ranks []tensor.Rank
	// DryRun maps fields without writing them
	DryRun bool
	Logger *log.Logger
}

// Summary describes one mapped field by the magnitude range of its internal values
type Summary struct {
	Name    string
	Rank    tensor.Rank
	NValues int
	Min     float64
	Max     float64
}

func (s Summary) String() string {
	return fmt.Sprintf("%s (%s): %d values, |v| in [%g, %g]", s.Name, s.Rank, s.NValues, s.Min, s.Max)
}

// Report lists the mapped fields in the order they were processed
type Report struct {
	Fields []Summary
}

// Count returns the number of mapped fields of rank r
func (r *Report) Count(rank tensor.Rank) (n int) {
	for _, s := range r.Fields {
		if s.Rank == rank {
			n++
		}
	}
	return
}

func (d *Dispatcher) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}

// Perform maps all fields. The first failure aborts the run.
func (d *Dispatcher) Perform() (*Report, error) {
	headers, err := d.Source.ListFields(d.SourceTime)
	if err != nil {
		return nil, err
	}

	ranks := d.Ranks
	if ranks == nil {
		ranks = tensor.Ranks
	}

	report := &Report{}
	for _, rank := range ranks {
		for _, h := range headers {
			if h.Class != rank.ClassName() {
				continue
			}
			s, err := d.mapField(rank, h.Name)
			if err != nil {
				return report, fmt.Errorf("mapping %s: %w", h.Name, err)
			}
			report.Fields = append(report.Fields, s)
		}
	}
	return report, nil
}

func (d *Dispatcher) mapField(rank tensor.Rank, name string) (Summary, error) {
	switch rank {
	case tensor.ScalarRank:
		return mapField[tensor.Scalar](d, name)
	case tensor.VectorRank:
		return mapField[tensor.Vector](d, name)
	case tensor.SphericalTensorRank:
		return mapField[tensor.SphericalTensor](d, name)
	case tensor.SymmTensorRank:
		return mapField[tensor.SymmTensor](d, name)
	case tensor.TensorRank:
		return mapField[tensor.Tensor](d, name)
	}
	return Summary{}, fmt.Errorf("unsupported rank %s", rank)
}

func mapField[T tensor.Value[T]](d *Dispatcher, name string) (Summary, error) {
	d.logger().Printf("    interpolating %s", name)

	raw, err := d.Source.ReadField(d.SourceTime, name)
	if err != nil {
		return Summary{}, err
	}
	src, err := field.Decode[T](raw)
	if err != nil {
		return Summary{}, err
	}
	if err := src.Align(d.Mapper.Source); err != nil {
		return Summary{}, err
	}
	if err := src.CheckSizes(d.Mapper.Source, d.Mapper.Factory); err != nil {
		return Summary{}, err
	}

	mapped, err := mapper.Interpolate(d.Mapper, src)
	if err != nil {
		return Summary{}, err
	}
	out := mapped.Rename(src.Name)

	if !d.DryRun {
		if err := d.Target.WriteField(d.TargetTime, field.Encode(out)); err != nil {
			return Summary{}, err
		}
	}
	return summarize(out), nil
}

func summarize[T tensor.Value[T]](f *field.Field[T]) Summary {
	s := Summary{
		Name:    f.Name,
		Rank:    f.Rank(),
		NValues: len(f.Internal),
	}
	if len(f.Internal) == 0 {
		return s
	}
	mags := make([]float64, len(f.Internal))
	for i, v := range f.Internal {
		mags[i] = v.Magnitude()
	}
	s.Min = floats.Min(mags)
	s.Max = floats.Max(mags)
	return s
}
