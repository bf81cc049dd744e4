package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/loopforge/internal/config"
	"github.com/danielpatrickdp/loopforge/internal/journal"
	"github.com/danielpatrickdp/loopforge/internal/sim"
	"github.com/danielpatrickdp/loopforge/internal/store"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	steps := flag.Int("steps", 0, "override steps per day")
	days := flag.Int("days", 0, "override days per episode")
	episodes := flag.Int("episodes", 0, "override episode count")
	seed := flag.Int64("seed", -1, "override random seed")
	logDir := flag.String("logs", "", "override log directory")
	dbPath := flag.String("db", "", "override sqlite path; empty string in config disables persistence")
	policyURL := flag.String("policy-url", "", "override external policy service URL")
	mode := flag.String("mode", "", "override perception mode: accurate, partial, spin")
	flag.Parse()

	os.Exit(run(*configPath, overrides{
		steps: *steps, days: *days, episodes: *episodes, seed: *seed,
		logDir: *logDir, dbPath: *dbPath, policyURL: *policyURL, mode: *mode,
	}))
}

type overrides struct {
	steps, days, episodes int
	seed                  int64
	logDir, dbPath        string
	policyURL, mode       string
}

func run(configPath string, ov overrides) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}
	applyOverrides(&cfg, ov)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 2
	}
	defer log.Sync()

	jrnl, err := journal.Open(cfg.LogDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "journal: %v\n", err)
		return 2
	}
	defer jrnl.Close()

	var st *store.Store
	if cfg.DBPath != "" {
		st, err = store.NewStore(cfg.DBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: %v\n", err)
			return 2
		}
		defer st.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := sim.New(cfg, jrnl, st, log)
	snaps, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return 1
	}

	fmt.Printf("Completed %d episode(s), %d day(s) each, seed %d, perception=%s\n",
		cfg.Episodes, cfg.NumDays, cfg.Seed, cfg.PerceptionMode)
	for _, s := range snaps {
		fmt.Printf("  episode %d: actions=%d incidents=%.2f belief=%.2f tension=%.2f  %s\n",
			s.EpisodeIndex, s.NumActions, s.IncidentRate, s.BeliefRate, s.TensionIndex, s.Notes)
	}
	fmt.Printf("Logs written to %s\n", cfg.LogDir)
	return 0
}

func applyOverrides(cfg *config.Config, ov overrides) {
	if ov.steps > 0 {
		cfg.StepsPerDay = ov.steps
	}
	if ov.days > 0 {
		cfg.NumDays = ov.days
	}
	if ov.episodes > 0 {
		cfg.Episodes = ov.episodes
	}
	if ov.seed >= 0 {
		cfg.Seed = ov.seed
	}
	if ov.logDir != "" {
		cfg.LogDir = ov.logDir
	}
	if ov.dbPath != "" {
		cfg.DBPath = ov.dbPath
	}
	if ov.policyURL != "" {
		cfg.PolicyURL = ov.policyURL
	}
	if ov.mode != "" {
		cfg.PerceptionMode = ov.mode
	}
}

// #endregion main
