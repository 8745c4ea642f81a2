package telemetry

import (
	"log/slog"
	"time"
)

// Step phase names, in pipeline order. These match the names the world
// reports through its step timer.
const (
	PhaseBroadphase  = "broadphase"
	PhaseNarrowphase = "narrowphase"
	PhaseIntegration = "integration"
	PhaseWarmStart   = "warmstart"
	PhaseSolver      = "solver"
	PhasePositions   = "positions"
	PhaseCleanup     = "cleanup"
)

// stepPhases fixes the phase order for accumulation, logging, and CSV
// export. Index into this array, never range over a map.
var stepPhases = [...]string{
	PhaseBroadphase,
	PhaseNarrowphase,
	PhaseIntegration,
	PhaseWarmStart,
	PhaseSolver,
	PhasePositions,
	PhaseCleanup,
}

const phaseCount = len(stepPhases)

// stepTiming is the duration record of one completed step.
type stepTiming struct {
	total  time.Duration
	phases [phaseCount]time.Duration
}

// PerfCollector implements the world's step-timer contract and keeps a
// rolling window of per-step timings. The step pipeline is fixed, so
// phase durations accumulate into an index-addressed array and a step
// costs no allocation to record.
type PerfCollector struct {
	window []stepTiming
	next   int
	filled int

	current    stepTiming
	phase      int // index into stepPhases, -1 when no phase is open
	stepBegan  time.Time
	phaseBegan time.Time
}

// NewPerfCollector creates a collector averaging over windowSize steps
// (60 covers one second at the default rate).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		window: make([]stepTiming, windowSize),
		phase:  -1,
	}
}

// StartTick marks the beginning of a simulation step.
func (p *PerfCollector) StartTick() {
	p.current = stepTiming{}
	p.phase = -1
	p.stepBegan = time.Now()
}

// StartPhase closes the open phase, if any, and opens the named one.
// Names outside the step pipeline are timed into nothing.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phaseIndex(name)
	p.phaseBegan = now
}

// EndTick closes the open phase and commits the step into the window,
// overwriting the oldest entry once the window is full.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)

	p.current.total = now.Sub(p.stepBegan)

	p.window[p.next] = p.current
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.phases[p.phase] += now.Sub(p.phaseBegan)
		p.phase = -1
	}
}

func phaseIndex(name string) int {
	for i, phase := range stepPhases {
		if phase == name {
			return i
		}
	}
	return -1
}

// PhaseTiming is one pipeline phase's share of the aggregated step.
type PhaseTiming struct {
	Name string
	Avg  time.Duration
	Pct  float64
}

// PerfStats aggregates the collector's window. Phases holds every
// pipeline phase in order, including those that measured zero.
type PerfStats struct {
	AvgStep        time.Duration
	MinStep        time.Duration
	MaxStep        time.Duration
	StepsPerSecond float64
	Phases         [phaseCount]PhaseTiming
}

// Stats aggregates the current window. An empty window yields zeroed
// stats with the phase names filled in.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	for i, name := range stepPhases {
		s.Phases[i].Name = name
	}

	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var phaseTotals [phaseCount]time.Duration

	s.MinStep = p.window[0].total

	for i := 0; i < p.filled; i++ {
		t := p.window[i]

		total += t.total
		if t.total < s.MinStep {
			s.MinStep = t.total
		}
		if t.total > s.MaxStep {
			s.MaxStep = t.total
		}

		for j := range phaseTotals {
			phaseTotals[j] += t.phases[j]
		}
	}

	n := time.Duration(p.filled)
	s.AvgStep = total / n

	if s.AvgStep > 0 {
		s.StepsPerSecond = float64(time.Second) / float64(s.AvgStep)
	}

	for i := range s.Phases {
		s.Phases[i].Avg = phaseTotals[i] / n
		if s.AvgStep > 0 {
			s.Phases[i].Pct = 100 * float64(s.Phases[i].Avg) / float64(s.AvgStep)
		}
	}

	return s
}

func (s PerfStats) phasePct(name string) float64 {
	for _, phase := range s.Phases {
		if phase.Name == name {
			return phase.Pct
		}
	}
	return 0
}

// LogStats logs the aggregate step timing, skipping phases that
// contribute under a tenth of a percent.
func (s PerfStats) LogStats() {
	args := []any{
		"avg_step_us", s.AvgStep.Microseconds(),
		"min_step_us", s.MinStep.Microseconds(),
		"max_step_us", s.MaxStep.Microseconds(),
		"steps_per_sec", int(s.StepsPerSecond),
	}

	for _, phase := range s.Phases {
		if phase.Pct >= 0.1 {
			args = append(args, phase.Name+"_pct", phase.Pct)
		}
	}

	slog.Info("perf", args...)
}

// LogValue implements slog.LogValuer. Phase attributes always appear
// in pipeline order.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStep.Microseconds()),
		slog.Int64("min_step_us", s.MinStep.Microseconds()),
		slog.Int64("max_step_us", s.MaxStep.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
	}

	for _, phase := range s.Phases {
		attrs = append(attrs, slog.Float64(phase.Name+"_pct", phase.Pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat CSV row shape of one aggregation window,
// one percentage column per pipeline phase.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgStepUS      int64   `csv:"avg_step_us"`
	MinStepUS      int64   `csv:"min_step_us"`
	MaxStepUS      int64   `csv:"max_step_us"`
	StepsPerSec    float64 `csv:"steps_per_sec"`
	BroadphasePct  float64 `csv:"broadphase_pct"`
	NarrowphasePct float64 `csv:"narrowphase_pct"`
	IntegrationPct float64 `csv:"integration_pct"`
	WarmStartPct   float64 `csv:"warmstart_pct"`
	SolverPct      float64 `csv:"solver_pct"`
	PositionsPct   float64 `csv:"positions_pct"`
	CleanupPct     float64 `csv:"cleanup_pct"`
}

// ToCSV flattens the stats into a CSV row ending the given window.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgStepUS:      s.AvgStep.Microseconds(),
		MinStepUS:      s.MinStep.Microseconds(),
		MaxStepUS:      s.MaxStep.Microseconds(),
		StepsPerSec:    s.StepsPerSecond,
		BroadphasePct:  s.phasePct(PhaseBroadphase),
		NarrowphasePct: s.phasePct(PhaseNarrowphase),
		IntegrationPct: s.phasePct(PhaseIntegration),
		WarmStartPct:   s.phasePct(PhaseWarmStart),
		SolverPct:      s.phasePct(PhaseSolver),
		PositionsPct:   s.phasePct(PhasePositions),
		CleanupPct:     s.phasePct(PhaseCleanup),
	}
}
