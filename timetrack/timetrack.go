// Package timetrack derives time axes for waveform channels from their wf_* properties.
package timetrack

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"gonum.org/v1/gonum/floats"
)

// Waveform property names.
const (
	PropIncrement   = "wf_increment"
	PropStartOffset = "wf_start_offset"
	PropStartTime   = "wf_start_time"
)

// Source is a channel whose properties describe its time axis.
type Source interface {
	SampleCount() (int, error)
	Property(name string) (format.Value, error)
}

// Series is a derived time axis. Absolute is nil unless it was requested.
type Series struct {
	Relative []float64
	Absolute []time.Time
}

// Build derives the relative axis and, when absolute is set, the absolute one.
func Build(src Source, absolute bool, acc Accuracy, loc *time.Location) (Series, error) {
	if absolute {
		if err := acc.Validate(); err != nil {
			return Series{}, err
		}
	}

	rel, err := Relative(src)
	if err != nil {
		return Series{}, err
	}

	s := Series{Relative: rel}
	if !absolute {
		return s, nil
	}

	start, err := startTime(src)
	if err != nil {
		return Series{}, err
	}
	s.Absolute = shift(rel, start, acc, loc)

	return s, nil
}

// Relative returns N evenly spaced offsets from wf_start_offset to
// wf_start_offset + (N-1)*wf_increment, both ends included, where N is the sample count.
func Relative(src Source) ([]float64, error) {
	increment, err := number(src, PropIncrement)
	if err != nil {
		return nil, err
	}

	offset, err := number(src, PropStartOffset)
	if err != nil {
		return nil, err
	}

	n, err := src.SampleCount()
	if err != nil {
		return nil, err
	}

	switch n {
	case 0:
		return []float64{}, nil
	case 1:
		return []float64{offset}, nil
	default:
		return floats.Span(make([]float64, n), offset, offset+float64(n-1)*increment), nil
	}
}

// Absolute returns the relative axis added to wf_start_time, each offset truncated to acc.
// A non-nil loc sets the location of the returned times; otherwise they are UTC.
func Absolute(src Source, acc Accuracy, loc *time.Location) ([]time.Time, error) {
	s, err := Build(src, true, acc, loc)
	if err != nil {
		return nil, err
	}

	return s.Absolute, nil
}

func shift(rel []float64, start time.Time, acc Accuracy, loc *time.Location) []time.Time {
	scale := acc.Scale()
	unit := acc.Unit()

	out := make([]time.Time, len(rel))
	for i, r := range rel {
		t := start.Add(time.Duration(int64(r*scale)) * unit)
		if loc != nil {
			t = t.In(loc)
		}
		out[i] = t
	}

	return out
}

func lookup(src Source, name string) (format.Value, error) {
	v, err := src.Property(name)
	if errors.Is(err, errs.ErrNotFound) {
		return format.Value{}, fmt.Errorf("%w: %s", errs.ErrMissingProperty, name)
	}

	return v, err
}

func number(src Source, name string) (float64, error) {
	v, err := lookup(src, name)
	if err != nil {
		return 0, err
	}

	f, ok := v.Float64()
	if !ok {
		return 0, fmt.Errorf("%w: %s is %s, not a number", errs.ErrInvalidValue, name, v.Type())
	}

	return f, nil
}

func startTime(src Source) (time.Time, error) {
	v, err := lookup(src, PropStartTime)
	if err != nil {
		return time.Time{}, err
	}

	t, ok := v.Time()
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s is %s, not a timestamp", errs.ErrInvalidValue, PropStartTime, v.Type())
	}

	return t, nil
}
