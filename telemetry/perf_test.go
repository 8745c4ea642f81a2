package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorTracksPipelinePhases(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseBroadphase)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseSolver)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgStep <= 0 {
		t.Error("expected positive average step duration")
	}

	if pct := stats.phasePct(PhaseBroadphase); pct <= 0 {
		t.Errorf("broadphase pct = %v, want > 0", pct)
	}
	if pct := stats.phasePct(PhaseSolver); pct <= 0 {
		t.Errorf("solver pct = %v, want > 0", pct)
	}

	// Phases that never ran stay at zero.
	if pct := stats.phasePct(PhaseWarmStart); pct != 0 {
		t.Errorf("warmstart pct = %v, want 0", pct)
	}

	// The solver sleep is twice the broadphase sleep.
	if stats.phasePct(PhaseSolver) <= stats.phasePct(PhaseBroadphase) {
		t.Errorf("solver pct %v should exceed broadphase pct %v",
			stats.phasePct(PhaseSolver), stats.phasePct(PhaseBroadphase))
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	// Overfill the window so the oldest entries are overwritten.
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIntegration)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgStep <= 0 {
		t.Error("expected positive average step duration after window filled")
	}
	if stats.StepsPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
	if stats.MinStep > stats.MaxStep {
		t.Errorf("min step %v exceeds max step %v", stats.MinStep, stats.MaxStep)
	}
}

func TestPerfCollectorIgnoresUnknownPhase(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartTick()
	pc.StartPhase("render")
	time.Sleep(50 * time.Microsecond)
	pc.EndTick()

	stats := pc.Stats()

	for _, phase := range stats.Phases {
		if phase.Avg != 0 {
			t.Errorf("phase %s accumulated %v from an unknown phase name",
				phase.Name, phase.Avg)
		}
	}

	// The step total still counts the elapsed time.
	if stats.AvgStep <= 0 {
		t.Error("expected positive step duration")
	}
}

func TestPerfCollectorEmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgStep != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}

	// Phase names are filled in even with no samples, so consumers can
	// render a stable table.
	for i, phase := range stats.Phases {
		if phase.Name != stepPhases[i] {
			t.Errorf("phase %d name = %q, want %q", i, phase.Name, stepPhases[i])
		}
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.StartTick()
	pc.StartPhase(PhaseSolver)
	time.Sleep(50 * time.Microsecond)
	pc.EndTick()

	record := pc.Stats().ToCSV(60)

	if record.WindowEnd != 60 {
		t.Errorf("expected window end 60, got %d", record.WindowEnd)
	}
	if record.AvgStepUS <= 0 {
		t.Error("expected positive avg step microseconds")
	}
	if record.SolverPct <= 0 {
		t.Error("expected positive solver percentage")
	}
	if record.BroadphasePct != 0 {
		t.Errorf("broadphase pct = %v, want 0 for an untimed phase", record.BroadphasePct)
	}
}
