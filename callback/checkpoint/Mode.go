package checkpoint

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidMode is returned when a comparison mode other than "min"
// or "max" is requested
var ErrInvalidMode = errors.New("invalid mode")

// Mode determines whether smaller or larger values of a monitored
// metric are considered better
type Mode int

const (
	Min Mode = iota
	Max
)

// ParseMode returns the Mode named by s, either "min" or "max"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	}
	return 0, errors.Wrapf(ErrInvalidMode, "parsemode: %q", s)
}

func (m Mode) String() string {
	switch m {
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Improved returns whether current is strictly better than best
func (m Mode) Improved(current, best float64) bool {
	switch m {
	case Min:
		return current < best
	case Max:
		return current > best
	}
	panic(fmt.Sprintf("improved: no such mode %v", m))
}

// Worst returns the value every metric value is better than, except
// for the value itself and NaN
func (m Mode) Worst() float64 {
	switch m {
	case Min:
		return math.Inf(1)
	case Max:
		return math.Inf(-1)
	}
	panic(fmt.Sprintf("worst: no such mode %v", m))
}
