package timetrack

import (
	"fmt"
	"time"

	"github.com/arloliu/tdms/errs"
)

// Accuracy is the resolution absolute times are truncated to.
type Accuracy uint8

const (
	Seconds Accuracy = iota + 1
	Milliseconds
	Microseconds
	Nanoseconds
)

var accuracies = [...]struct {
	name  string
	scale float64
	unit  time.Duration
}{
	Seconds:      {"s", 1, time.Second},
	Milliseconds: {"ms", 1e3, time.Millisecond},
	Microseconds: {"us", 1e6, time.Microsecond},
	Nanoseconds:  {"ns", 1e9, time.Nanosecond},
}

func (a Accuracy) String() string {
	if a.Validate() != nil {
		return fmt.Sprintf("Accuracy(%d)", uint8(a))
	}

	return accuracies[a].name
}

// Validate returns errs.ErrInvalidAccuracy for values outside the defined constants.
func (a Accuracy) Validate() error {
	if a < Seconds || a > Nanoseconds {
		return fmt.Errorf("%w: %d", errs.ErrInvalidAccuracy, uint8(a))
	}

	return nil
}

// Scale converts seconds into units of a.
func (a Accuracy) Scale() float64 {
	if a.Validate() != nil {
		return 0
	}

	return accuracies[a].scale
}

// Unit returns the duration of one unit of a.
func (a Accuracy) Unit() time.Duration {
	if a.Validate() != nil {
		return 0
	}

	return accuracies[a].unit
}

// ParseAccuracy parses "s", "ms", "us" or "ns".
func ParseAccuracy(s string) (Accuracy, error) {
	for a := Seconds; a <= Nanoseconds; a++ {
		if accuracies[a].name == s {
			return a, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrInvalidAccuracy, s)
}
