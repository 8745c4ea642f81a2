package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/impulse/config"
	"github.com/pthm-cable/impulse/scene"
	"github.com/pthm-cable/impulse/telemetry"
)

func main() {
	// CLI flags
	scenarioName := flag.String("scenario", "basic", "Scenario to run: basic, stack, shower")
	seconds := flag.Float64("seconds", 10, "Simulated seconds to run")
	dtFlag := flag.Float64("dt", 0, "Step size in seconds (0 = use config)")
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	telemetryDir := flag.String("telemetry-dir", "", "Output directory for CSV logs and config snapshot")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	bodies := flag.Int("bodies", 10, "Body count for the stack and shower scenarios")
	seed := flag.Int64("seed", 42, "RNG seed for the shower scenario")

	flag.Parse()

	// Set up slog (JSON to stderr for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	dt := cfg.Derived.DT32
	if *dtFlag > 0 {
		dt = float32(*dtFlag)
	}
	if dt <= 0 {
		slog.Error("step size must be positive", "dt", dt)
		os.Exit(1)
	}

	s := buildScenario(*scenarioName, *bodies, *seed)
	if s == nil {
		slog.Error("unknown scenario", "scenario", *scenarioName)
		os.Exit(1)
	}

	outDir := *telemetryDir
	if outDir == "" {
		outDir = cfg.Telemetry.OutputDir
	}

	run, err := telemetry.NewRun(outDir, *scenarioName, cfg)
	if err != nil {
		slog.Error("failed to prepare output", "error", err)
		os.Exit(1)
	}
	defer run.Close()

	perf := telemetry.NewPerfCollector(cfg.Telemetry.Window)
	s.World().SetTimer(perf)

	collector := telemetry.NewCollector(float64(cfg.Telemetry.Window)*float64(dt), dt)

	totalSteps := int(*seconds / float64(dt))

	slog.Info("starting simulation",
		"scenario", *scenarioName,
		"steps", totalSteps,
		"dt", dt,
		"bodies", s.World().BodyCount(),
	)

	for step := 1; step <= totalSteps; step++ {
		s.Step(dt)

		stats := s.World().Stats()
		collector.Record(telemetry.StepSample{
			Bodies:        stats.Bodies,
			PairsTested:   stats.PairsTested,
			Manifolds:     stats.Manifolds,
			Contacts:      stats.Contacts,
			CacheSize:     stats.CacheSize,
			KineticEnergy: s.World().KineticEnergy(),
		})

		if collector.ShouldFlush(int32(step)) {
			window := collector.Flush(int32(step), stats.Bodies, stats.CacheSize)
			window.LogStats()

			perfStats := perf.Stats()
			perfStats.LogStats()

			if err := run.WriteWindow(window, perfStats); err != nil {
				slog.Warn("failed to write window", "error", err)
			}
		}
	}

	slog.Info("simulation complete",
		"sim_time", float64(totalSteps)*float64(dt),
		"bodies", s.World().BodyCount(),
		"kinetic_energy", s.World().KineticEnergy(),
	)
}

// buildScenario constructs the named scenario, or nil if the name is
// unknown.
func buildScenario(name string, bodies int, seed int64) *scene.Scene {
	switch name {
	case "basic":
		return scene.Basic()
	case "stack":
		return scene.Stack(bodies)
	case "shower":
		return scene.Shower(bodies, seed)
	default:
		return nil
	}
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
