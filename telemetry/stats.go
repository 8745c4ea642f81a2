package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// StepSample is one step's worth of simulation counters, fed into the
// collector by the driver after every world step.
type StepSample struct {
	Bodies        int
	PairsTested   int
	Manifolds     int
	Contacts      int
	CacheSize     int
	KineticEnergy float64
}

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartStep int32   `csv:"-"`
	WindowEndStep   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Bodies    int `csv:"bodies"`
	CacheSize int `csv:"cache_size"`

	// Collision load over the window
	PairsTestedMean float64 `csv:"pairs_tested_mean"`
	PairsTestedMax  int     `csv:"pairs_tested_max"`
	ManifoldsMean   float64 `csv:"manifolds_mean"`
	ContactsMean    float64 `csv:"contacts_mean"`
	ContactsMax     int     `csv:"contacts_max"`

	// Kinetic energy over the window
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyMin  float64 `csv:"energy_min"`
	EnergyMax  float64 `csv:"energy_max"`
}

// ComputeEnergyStats calculates mean, stddev, min, and max from energy
// values sampled across a window.
func ComputeEnergyStats(values []float64) (mean, std, min, max float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return mean, std, min, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartStep)),
		slog.Int("window_end", int(s.WindowEndStep)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("bodies", s.Bodies),
		slog.Int("cache_size", s.CacheSize),
		slog.Float64("pairs_tested_mean", s.PairsTestedMean),
		slog.Int("pairs_tested_max", s.PairsTestedMax),
		slog.Float64("manifolds_mean", s.ManifoldsMean),
		slog.Float64("contacts_mean", s.ContactsMean),
		slog.Int("contacts_max", s.ContactsMax),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_min", s.EnergyMin),
		slog.Float64("energy_max", s.EnergyMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndStep,
		"sim_time", s.SimTimeSec,
		"bodies", s.Bodies,
		"cache_size", s.CacheSize,
		"pairs_tested_mean", s.PairsTestedMean,
		"pairs_tested_max", s.PairsTestedMax,
		"manifolds_mean", s.ManifoldsMean,
		"contacts_mean", s.ContactsMean,
		"contacts_max", s.ContactsMax,
		"energy_mean", s.EnergyMean,
		"energy_std", s.EnergyStd,
		"energy_min", s.EnergyMin,
		"energy_max", s.EnergyMax,
	)
}
