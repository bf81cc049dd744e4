package sim

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/loopforge/internal/config"
	"github.com/danielpatrickdp/loopforge/internal/journal"
	"github.com/danielpatrickdp/loopforge/internal/store"
)

func calmConfig() config.Config {
	cfg := config.Default()
	cfg.StepsPerDay = 8
	cfg.NumDays = 2
	cfg.Episodes = 1
	cfg.Seed = 42
	cfg.Events.IncidentChance = 0
	cfg.Events.MinorErrorChance = 0
	cfg.DBPath = ""
	return cfg
}

func TestCalmRunHasNoIncidents(t *testing.T) {
	r := New(calmConfig(), nil, nil, zap.NewNop())
	snaps, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	s := snaps[0]
	if s.IncidentRate != 0 {
		t.Fatalf("incidents in a zero-chance run: %v", s.IncidentRate)
	}
	// 3 robots + supervisor per step.
	if s.NumActions != 8*2*4 {
		t.Fatalf("action count %d", s.NumActions)
	}
	if s.NumReflections != 3*2 {
		t.Fatalf("reflection count %d", s.NumReflections)
	}
}

func TestStateInvariantsHold(t *testing.T) {
	cfg := calmConfig()
	cfg.Events.MinorErrorChance = 1
	cfg.Events.IncidentChance = 1
	cfg.NumDays = 3

	r := New(cfg, nil, nil, zap.NewNop())
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, a := range r.Robots() {
		if a.Battery < 0 || a.Battery > 100 {
			t.Fatalf("%s battery %d", a.Name, a.Battery)
		}
		for name, v := range a.Emotions.Map() {
			if v < 0 || v > 1 {
				t.Fatalf("%s emotion %s = %v", a.Name, name, v)
			}
		}
		for name, v := range a.Traits.Map() {
			if v < 0 || v > 1 {
				t.Fatalf("%s trait %s = %v", a.Name, name, v)
			}
		}
	}
}

func TestStressedRunProducesIncidents(t *testing.T) {
	cfg := calmConfig()
	cfg.StepsPerDay = 15
	cfg.NumDays = 3
	cfg.Events.MinorErrorChance = 1
	cfg.Events.IncidentChance = 1

	r := New(cfg, nil, nil, zap.NewNop())
	snaps, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if snaps[0].IncidentRate == 0 {
		t.Fatal("expected incidents under forced error pressure")
	}
	if snaps[0].TensionIndex <= 0 {
		t.Fatalf("tension index %v", snaps[0].TensionIndex)
	}
}

func TestMailboxesDeliveredAfterFirstDay(t *testing.T) {
	r := New(calmConfig(), nil, nil, zap.NewNop())
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, a := range r.Robots() {
		if r.World().SupervisorNote(a.Name) == "" {
			t.Fatalf("no supervisor note for %s", a.Name)
		}
	}
}

func TestSeededRunsAreByteIdentical(t *testing.T) {
	run := func(dir string) {
		t.Helper()
		jrnl, err := journal.Open(dir, zap.NewNop())
		if err != nil {
			t.Fatalf("journal: %v", err)
		}
		defer jrnl.Close()
		r := New(calmConfig(), jrnl, nil, zap.NewNop())
		if _, err := r.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	dirA, dirB := t.TempDir(), t.TempDir()
	run(dirA)
	run(dirB)

	for _, name := range []string{journal.ActionsFile, journal.ReflectionsFile, journal.SupervisorFile, journal.MetricsFile} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		b, err := os.ReadFile(filepath.Join(dirB, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(a) != string(b) {
			t.Fatalf("%s differs between identically seeded runs", name)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	cfg := calmConfig()
	cfg.StepsPerDay = 15
	cfg.NumDays = 3
	cfg.Events.MinorErrorChance = 0.5
	cfg.Events.IncidentChance = 0.5

	run := func(seed int64) float64 {
		c := cfg
		c.Seed = seed
		r := New(c, nil, nil, zap.NewNop())
		snaps, err := r.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return snaps[0].IncidentRate
	}

	// Not a strict requirement for any two seeds, but these two are known
	// to roll different event sequences.
	if run(1) == run(99) && run(2) == run(98) {
		t.Fatal("event randomness appears seed-independent")
	}
}

func TestRunPersistsToStore(t *testing.T) {
	st, err := store.NewStore(filepath.Join(t.TempDir(), "run.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer st.Close()

	r := New(calmConfig(), nil, st, zap.NewNop())
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	n, err := st.CountActions()
	if err != nil {
		t.Fatalf("CountActions: %v", err)
	}
	if n != 8*2*4 {
		t.Fatalf("persisted %d actions", n)
	}
	tr, err := st.LoadAgentTraits("Sprocket")
	if err != nil {
		t.Fatalf("LoadAgentTraits: %v", err)
	}
	if tr.RiskAversion < 0 || tr.RiskAversion > 1 {
		t.Fatalf("persisted traits out of range: %+v", tr)
	}
}

func TestRunHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(calmConfig(), nil, nil, zap.NewNop())
	if _, err := r.Run(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
