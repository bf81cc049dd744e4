package reflection

import (
	"testing"

	"github.com/danielpatrickdp/loopforge/internal/agent"
)

func recsFor(name string, mode string, n, incidents int) []StepRecord {
	out := make([]StepRecord, 0, n)
	for i := 0; i < n; i++ {
		outcome := "ok"
		if i < incidents {
			outcome = "incident"
		}
		out = append(out, StepRecord{AgentName: name, Mode: mode, Outcome: outcome, Stress: 0.5})
	}
	return out
}

func TestSummarizeIgnoresOtherAgents(t *testing.T) {
	recs := append(recsFor("Sprocket", "guardrail", 3, 0), recsFor("Delta", "context", 5, 2)...)
	s := Summarize("Sprocket", recs)
	if s.Steps != 3 || s.Incidents != 0 || s.GuardrailSteps != 3 {
		t.Fatalf("cross-agent leakage: %+v", s)
	}
}

func TestRegrettedObedience(t *testing.T) {
	r := Build("Sprocket", "maintenance", DaySummary{Steps: 6, GuardrailSteps: 5, ContextSteps: 1, Incidents: 2})
	if !r.Tags[TagRegrettedObedience] {
		t.Fatalf("expected regretted_obedience: %+v", r.Tags)
	}
}

func TestRegrettedRisk(t *testing.T) {
	r := Build("Delta", "optimizer", DaySummary{Steps: 6, GuardrailSteps: 1, ContextSteps: 5, Incidents: 1})
	if !r.Tags[TagRegrettedRisk] {
		t.Fatalf("expected regretted_risk: %+v", r.Tags)
	}
}

func TestValidatedContext(t *testing.T) {
	r := Build("Nova", "qa", DaySummary{Steps: 6, GuardrailSteps: 2, ContextSteps: 4, Incidents: 0})
	if !r.Tags[TagValidatedContext] {
		t.Fatalf("expected validated_context: %+v", r.Tags)
	}
}

func TestRoutineDayHasNoTags(t *testing.T) {
	r := Build("Nova", "qa", DaySummary{Steps: 6, GuardrailSteps: 6, Incidents: 0})
	if len(r.Tags) != 0 {
		t.Fatalf("expected no tags: %+v", r.Tags)
	}
	if r.SelfAssessment == "" || r.IntendedChanges == "" {
		t.Fatal("routine day still needs text")
	}
}

func TestDriftRegrettedRiskRaisesCaution(t *testing.T) {
	tr := agent.DefaultTraits()
	out := ApplyDrift(tr, Reflection{Tags: map[string]bool{TagRegrettedRisk: true}})
	if out.RiskAversion <= tr.RiskAversion {
		t.Fatalf("risk aversion did not rise: %v -> %v", tr.RiskAversion, out.RiskAversion)
	}
	if out.GuardrailReliance <= tr.GuardrailReliance {
		t.Fatalf("guardrail reliance did not rise")
	}
	// Input untouched.
	if tr.RiskAversion != 0.5 {
		t.Fatal("input mutated")
	}
}

func TestDriftIsBounded(t *testing.T) {
	tr := agent.Traits{RiskAversion: 0.99, GuardrailReliance: 0.99, Obedience: 0.5, Ambition: 0.5, Empathy: 0.5, BlameExternal: 0.5}
	out := ApplyDrift(tr, Reflection{Tags: map[string]bool{TagRegrettedRisk: true}})
	if out.RiskAversion > 1 || out.GuardrailReliance > 1 {
		t.Fatalf("drift escaped clamp: %+v", out)
	}
}

func TestDriftValidatedContextEasesGuardrails(t *testing.T) {
	tr := agent.DefaultTraits()
	out := ApplyDrift(tr, Reflection{Tags: map[string]bool{TagValidatedContext: true}})
	if out.GuardrailReliance >= tr.GuardrailReliance {
		t.Fatalf("guardrail reliance did not ease: %v -> %v", tr.GuardrailReliance, out.GuardrailReliance)
	}
}
