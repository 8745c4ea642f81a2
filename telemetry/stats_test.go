package telemetry

import (
	"math"
	"testing"
)

func TestComputeEnergyStats(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	mean, std, min, max := ComputeEnergyStats(values)

	// Mean should be 0.55
	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}

	// Sample stddev of 0.1..1.0 is ~0.3028
	if math.Abs(std-0.3028) > 0.001 {
		t.Errorf("std = %v, want ~0.3028", std)
	}

	if min != 0.1 {
		t.Errorf("min = %v, want 0.1", min)
	}

	if max != 1.0 {
		t.Errorf("max = %v, want 1.0", max)
	}
}

func TestComputeEnergyStatsSingleValue(t *testing.T) {
	mean, std, min, max := ComputeEnergyStats([]float64{3.5})

	if mean != 3.5 || min != 3.5 || max != 3.5 {
		t.Errorf("single value stats = (%v, %v, %v), want all 3.5", mean, min, max)
	}

	if std != 0 {
		t.Errorf("std = %v, want 0 for single value", std)
	}
}

func TestComputeEnergyStatsEmpty(t *testing.T) {
	mean, std, min, max := ComputeEnergyStats([]float64{})

	if mean != 0 || std != 0 || min != 0 || max != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorWindowing(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	if got := c.WindowDurationSteps(); got != 60 {
		t.Fatalf("window duration = %d steps, want 60", got)
	}

	if c.ShouldFlush(59) {
		t.Error("should not flush before the window fills")
	}
	if !c.ShouldFlush(60) {
		t.Error("should flush once the window fills")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	for i := 0; i < 60; i++ {
		c.Record(StepSample{
			Bodies:        10,
			PairsTested:   4,
			Manifolds:     2,
			Contacts:      3,
			CacheSize:     2,
			KineticEnergy: 5.0,
		})
	}

	stats := c.Flush(60, 10, 2)

	if stats.WindowStartStep != 0 || stats.WindowEndStep != 60 {
		t.Errorf("window = [%d, %d], want [0, 60]", stats.WindowStartStep, stats.WindowEndStep)
	}

	if math.Abs(stats.SimTimeSec-1.0) > 0.001 {
		t.Errorf("sim time = %v, want 1.0", stats.SimTimeSec)
	}

	if stats.Bodies != 10 || stats.CacheSize != 2 {
		t.Errorf("bodies/cache = %d/%d, want 10/2", stats.Bodies, stats.CacheSize)
	}

	if math.Abs(stats.PairsTestedMean-4.0) > 0.001 {
		t.Errorf("pairs tested mean = %v, want 4.0", stats.PairsTestedMean)
	}

	if stats.PairsTestedMax != 4 || stats.ContactsMax != 3 {
		t.Errorf("maxima = %d/%d, want 4/3", stats.PairsTestedMax, stats.ContactsMax)
	}

	if math.Abs(stats.EnergyMean-5.0) > 0.001 || stats.EnergyStd > 0.001 {
		t.Errorf("energy = %v±%v, want 5.0±0", stats.EnergyMean, stats.EnergyStd)
	}
}

func TestCollectorFlushResetsCounters(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	c.Record(StepSample{PairsTested: 100, Contacts: 50, KineticEnergy: 9.0})
	c.Flush(60, 5, 1)

	c.Record(StepSample{PairsTested: 2, Contacts: 1, KineticEnergy: 1.0})
	stats := c.Flush(120, 5, 1)

	if stats.WindowStartStep != 60 {
		t.Errorf("window start = %d, want 60", stats.WindowStartStep)
	}

	if stats.PairsTestedMax != 2 || stats.ContactsMax != 1 {
		t.Errorf("maxima carried over: %d/%d", stats.PairsTestedMax, stats.ContactsMax)
	}

	if math.Abs(stats.EnergyMean-1.0) > 0.001 {
		t.Errorf("energy mean carried over: %v", stats.EnergyMean)
	}
}

func TestCollectorFlushEmptyWindow(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	stats := c.Flush(60, 0, 0)

	if stats.PairsTestedMean != 0 || stats.EnergyMean != 0 {
		t.Error("empty window should flush to zeros")
	}
}
