package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/impulse/config"
)

// csvSeries appends rows to one CSV file, emitting the header on the
// first row only.
type csvSeries struct {
	file       *os.File
	headerDone bool
}

func appendSeries[T any](s *csvSeries, record T) error {
	rows := []T{record}
	if !s.headerDone {
		if err := gocsv.Marshal(rows, s.file); err != nil {
			return err
		}
		s.headerDone = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, s.file)
}

// Run is the output sink of one simulation run. It owns a directory
// holding the config snapshot and two CSV series, named after the
// scenario so repeated runs into the same directory stay apart:
//
//	<dir>/config.yaml
//	<dir>/<scenario>_telemetry.csv
//	<dir>/<scenario>_perf.csv
//
// A nil *Run is a valid no-op sink, so callers that run without output
// never branch on it.
type Run struct {
	dir       string
	telemetry csvSeries
	perf      csvSeries
}

// NewRun prepares the output directory and writes the config snapshot.
// An empty dir disables output and returns a nil Run.
func NewRun(dir, scenario string, cfg *config.Config) (*Run, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	if err := cfg.WriteYAML(filepath.Join(dir, "config.yaml")); err != nil {
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	r := &Run{dir: dir}

	f, err := os.Create(filepath.Join(dir, scenario+"_telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry series: %w", err)
	}
	r.telemetry.file = f

	f, err = os.Create(filepath.Join(dir, scenario+"_perf.csv"))
	if err != nil {
		r.telemetry.file.Close()
		return nil, fmt.Errorf("creating perf series: %w", err)
	}
	r.perf.file = f

	return r, nil
}

// WriteWindow appends one aggregation window to both series. The perf
// row is stamped with the window's end step so the two files join on
// that column.
func (r *Run) WriteWindow(window WindowStats, perf PerfStats) error {
	if r == nil {
		return nil
	}

	if err := appendSeries(&r.telemetry, window); err != nil {
		return fmt.Errorf("appending telemetry window: %w", err)
	}

	if err := appendSeries(&r.perf, perf.ToCSV(window.WindowEndStep)); err != nil {
		return fmt.Errorf("appending perf window: %w", err)
	}

	return nil
}

// Dir returns the output directory, empty for a disabled run.
func (r *Run) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// Close closes both series files, returning the first error.
func (r *Run) Close() error {
	if r == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{r.telemetry.file, r.perf.file} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
