// Package progress implements a callback which prints a progress bar
// of the epochs run so far, along with the latest metrics.
package progress

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/samuelfneumann/gotrain/callback"
)

// Bar prints a progress bar to a terminal after each epoch. Bar must
// be redrawn manually, so it should be used from a single goroutine.
type Bar struct {
	width  int
	epochs int
	out    io.Writer
	now    func() time.Time

	current   int
	startTime time.Time
	bar       strings.Builder
}

// Option configures a Bar
type Option func(*Bar)

// WithWriter sets where the progress bar is written. The default is
// os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(b *Bar) {
		b.out = w
	}
}

// WithClock sets the function used to measure elapsed time
func WithClock(now func() time.Time) Option {
	return func(b *Bar) {
		b.now = now
	}
}

// New returns a new Bar that is width characters wide and reaches
// 100% after epochs epochs
func New(epochs, width int, opts ...Option) *Bar {
	b := &Bar{
		width:  width,
		epochs: epochs,
		out:    os.Stdout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.startTime = b.now()
	return b
}

// OnTrainBegin implements the callback.TrainBeginner interface
func (b *Bar) OnTrainBegin(callback.Model) error {
	b.current = 0
	b.startTime = b.now()
	return nil
}

// OnEpochEnd implements the callback.EpochEnder interface
func (b *Bar) OnEpochEnd(_ callback.Model, _ int,
	logs callback.Logs) error {
	if b.current < b.epochs {
		b.current++
	}
	b.display(logs.Last())
	return nil
}

// OnTrainEnd implements the callback.TrainEnder interface
func (b *Bar) OnTrainEnd(callback.Model, callback.Logs) error {
	_, err := fmt.Fprintln(b.out)
	return err
}

// display redraws the progress bar on the current line
func (b *Bar) display(metrics map[string]float64) {
	fraction := 1.0
	if b.epochs > 0 {
		fraction = float64(b.current) / float64(b.epochs)
	}
	filled := int(fraction * float64(b.width))

	b.bar.Reset()
	b.bar.WriteString("|")
	b.bar.WriteString(strings.Repeat("█", filled))
	b.bar.WriteString(strings.Repeat(" ", b.width-filled))
	fmt.Fprintf(&b.bar, "| [%.2f%% | epoch %d/%d | elapsed: %v]",
		fraction*100, b.current, b.epochs,
		b.now().Sub(b.startTime).Truncate(time.Second))

	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		if k != callback.Epoch {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b.bar, " %v=%.4f", k, metrics[k])
	}

	fmt.Fprintf(b.out, "\n\033[1A\033[K%v", b.bar.String())
}
