package world

import "log/slog"

// Step phase names reported to the installed StepTimer.
const (
	phaseBroadphase  = "broadphase"
	phaseNarrowphase = "narrowphase"
	phaseIntegration = "integration"
	phaseWarmStart   = "warmstart"
	phaseSolver      = "solver"
	phasePositions   = "positions"
	phaseCleanup     = "cleanup"
)

// StepStats holds the counters of the most recent step.
type StepStats struct {
	Bodies      int
	PairsTested int
	Manifolds   int
	Contacts    int
	CacheSize   int
}

// Stats returns the counters recorded by the most recent Step.
func (w *World) Stats() StepStats {
	if w == nil {
		return StepStats{}
	}
	return w.stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s StepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bodies", s.Bodies),
		slog.Int("pairs_tested", s.PairsTested),
		slog.Int("manifolds", s.Manifolds),
		slog.Int("contacts", s.Contacts),
		slog.Int("cache_size", s.CacheSize),
	)
}
