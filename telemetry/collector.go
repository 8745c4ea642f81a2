package telemetry

import "math"

// Collector accumulates per-step samples within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationSteps int32
	dt                  float32

	// Current window tracking
	windowStartStep int32

	// Per-step samples for the current window
	pairsTested []float64
	manifolds   []float64
	contacts    []float64
	energies    []float64

	pairsTestedMax int
	contactsMax    int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per step (used for step-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	stepsPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if stepsPerWindow < 1 {
		stepsPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationSteps: stepsPerWindow,
		dt:                  dt,
		windowStartStep:     0,
	}
}

// Record accumulates one step's counters into the current window.
func (c *Collector) Record(sample StepSample) {
	c.pairsTested = append(c.pairsTested, float64(sample.PairsTested))
	c.manifolds = append(c.manifolds, float64(sample.Manifolds))
	c.contacts = append(c.contacts, float64(sample.Contacts))
	c.energies = append(c.energies, sample.KineticEnergy)

	if sample.PairsTested > c.pairsTestedMax {
		c.pairsTestedMax = sample.PairsTested
	}
	if sample.Contacts > c.contactsMax {
		c.contactsMax = sample.Contacts
	}
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(currentStep int32) bool {
	return currentStep-c.windowStartStep >= c.windowDurationSteps
}

// Flush produces a WindowStats and resets counters for the next window.
// bodies and cacheSize are sampled at the window boundary.
func (c *Collector) Flush(currentStep int32, bodies, cacheSize int) WindowStats {
	energyMean, energyStd, energyMin, energyMax := ComputeEnergyStats(c.energies)

	stats := WindowStats{
		WindowStartStep: c.windowStartStep,
		WindowEndStep:   currentStep,
		SimTimeSec:      float64(currentStep) * float64(c.dt),

		Bodies:    bodies,
		CacheSize: cacheSize,

		PairsTestedMean: meanOf(c.pairsTested),
		PairsTestedMax:  c.pairsTestedMax,
		ManifoldsMean:   meanOf(c.manifolds),
		ContactsMean:    meanOf(c.contacts),
		ContactsMax:     c.contactsMax,

		EnergyMean: energyMean,
		EnergyStd:  energyStd,
		EnergyMin:  energyMin,
		EnergyMax:  energyMax,
	}

	// Reset for next window
	c.windowStartStep = currentStep
	c.pairsTested = c.pairsTested[:0]
	c.manifolds = c.manifolds[:0]
	c.contacts = c.contacts[:0]
	c.energies = c.energies[:0]
	c.pairsTestedMax = 0
	c.contactsMax = 0

	return stats
}

// WindowDurationSteps returns the number of steps per window.
func (c *Collector) WindowDurationSteps() int32 {
	return c.windowDurationSteps
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
