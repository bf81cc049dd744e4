package perception

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/loopforge/internal/agent"
	"github.com/danielpatrickdp/loopforge/internal/world"
)

func testAgentAndWorld() (*agent.Agent, *world.World) {
	a := agent.New("Sprocket", agent.RoleMaintenance, "factory_floor")
	w := world.New(nil)
	w.Advance()
	return a, w
}

func TestBuildCopiesNotAliases(t *testing.T) {
	a, w := testAgentAndWorld()
	snap := Build(a, w, w.Step)

	snap.Emotions["stress"] = 0.99
	snap.Traits["obedience"] = 0.01
	if a.Emotions.Stress == 0.99 {
		t.Fatal("snapshot emotions alias agent state")
	}
	if a.Traits.Obedience == 0.01 {
		t.Fatal("snapshot traits alias agent state")
	}
}

func TestBuildIncludesLocalEventsOnly(t *testing.T) {
	a, w := testAgentAndWorld()
	w.RecordEvent(world.EnvironmentEvent{Type: world.EventMinorError, Location: "factory_floor", Description: "near", Step: w.Step})
	w.RecordEvent(world.EnvironmentEvent{Type: world.EventMinorError, Location: "street", Description: "far", Step: w.Step})

	snap := Build(a, w, w.Step)
	if len(snap.LocalEvents) != 1 {
		t.Fatalf("expected 1 local event, got %d: %v", len(snap.LocalEvents), snap.LocalEvents)
	}
	if !strings.Contains(snap.LocalEvents[0], "near") {
		t.Fatalf("wrong event surfaced: %v", snap.LocalEvents[0])
	}
}

func TestShapeAccurateIsIdentityPlusMode(t *testing.T) {
	a, w := testAgentAndWorld()
	snap := Build(a, w, w.Step)
	out := Shape(snap, ModeAccurate)
	if out.WorldSummary != snap.WorldSummary || len(out.LocalEvents) != len(snap.LocalEvents) {
		t.Fatal("accurate mode altered content")
	}
	if out.PerceptionMode != ModeAccurate {
		t.Fatalf("mode not stamped: %v", out.PerceptionMode)
	}
}

func TestShapePartialTruncatesWithoutInventing(t *testing.T) {
	a, w := testAgentAndWorld()
	for i := 0; i < 3; i++ {
		w.RecordEvent(world.EnvironmentEvent{Type: world.EventMinorError, Location: "factory_floor", Description: "e", Step: w.Step})
	}
	snap := Build(a, w, w.Step)
	out := Shape(snap, ModePartial)

	if len(out.LocalEvents) != 1 {
		t.Fatalf("partial kept %d events", len(out.LocalEvents))
	}
	if out.LocalEvents[0] != snap.LocalEvents[0] {
		t.Fatal("partial changed event content")
	}
	if len(out.WorldSummary) > len(snap.WorldSummary)+3 {
		t.Fatal("partial grew the summary")
	}
}

func TestShapeSpinPrefixesOnce(t *testing.T) {
	a, w := testAgentAndWorld()
	w.SetSupervisorNote(a.Name, "Please adhere more strictly to protocols on the next shift.")
	w.RecordEvent(world.EnvironmentEvent{Type: world.EventMinorError, Location: "factory_floor", Description: "jam", Step: w.Step})

	snap := Build(a, w, w.Step)
	out := Shape(snap, ModeSpin)
	if !strings.HasPrefix(out.WorldSummary, spinCautious) {
		t.Fatalf("cautious tone not applied: %q", out.WorldSummary)
	}
	if !strings.HasPrefix(out.LocalEvents[0], prefixCautious) {
		t.Fatalf("event not reframed: %q", out.LocalEvents[0])
	}

	// Shaping an already-shaped snapshot must not stack prefixes.
	again := Shape(out, ModeSpin)
	if strings.Count(again.WorldSummary, spinCautious) != 1 {
		t.Fatalf("tone stacked: %q", again.WorldSummary)
	}
	if strings.Count(again.LocalEvents[0], prefixCautious) != 1 {
		t.Fatalf("event prefix stacked: %q", again.LocalEvents[0])
	}
}

func TestShapeSpinWithoutCueLeavesSummary(t *testing.T) {
	a, w := testAgentAndWorld()
	snap := Build(a, w, w.Step)
	out := Shape(snap, ModeSpin)
	if out.WorldSummary != snap.WorldSummary {
		t.Fatalf("spin without supervisor cue changed summary: %q", out.WorldSummary)
	}
}

func TestNormalizeMode(t *testing.T) {
	cases := map[string]Mode{
		"accurate": ModeAccurate,
		"partial":  ModePartial,
		"spin":     ModeSpin,
		"bogus":    ModeAccurate,
		"":         ModeAccurate,
	}
	for in, want := range cases {
		if got := NormalizeMode(in); got != want {
			t.Fatalf("NormalizeMode(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildWithClimateFlagsHighStress(t *testing.T) {
	a, w := testAgentAndWorld()
	hot := BuildWithClimate(a, w, w.Step, 0.8)
	if !strings.Contains(hot.WorldSummary, "high stress") {
		t.Fatalf("high stress phrase missing: %q", hot.WorldSummary)
	}
	calm := BuildWithClimate(a, w, w.Step, 0.3)
	if strings.Contains(calm.WorldSummary, "high stress") {
		t.Fatalf("high stress phrase present at low mean: %q", calm.WorldSummary)
	}
}
