package reflection

import (
	"fmt"

	"github.com/danielpatrickdp/loopforge/internal/agent"
)

// #region types

// Reflection tags.
const (
	TagRegrettedRisk      = "regretted_risk"
	TagRegrettedObedience = "regretted_obedience"
	TagValidatedContext   = "validated_context"
)

// Reflection is one agent's end-of-day self-summary, derived purely from
// that day's step records.
type Reflection struct {
	Summary         string          `json:"summary_of_day"`
	SelfAssessment  string          `json:"self_assessment"`
	IntendedChanges string          `json:"intended_changes"`
	Tags            map[string]bool `json:"tags"`
}

// StepRecord is the minimal slice of an action log entry the daily
// aggregation needs. The orchestrator converts journal entries into these.
type StepRecord struct {
	AgentName string
	Mode      string
	Outcome   string
	Stress    float64
}

// DaySummary holds per-agent aggregates over one day's window.
type DaySummary struct {
	Steps          int
	GuardrailSteps int
	ContextSteps   int
	Incidents      int
	AvgStress      float64
}

// #endregion types

// #region summarize

// Summarize computes one agent's aggregates over a day's records. Records
// belonging to other agents are ignored.
func Summarize(agentName string, recs []StepRecord) DaySummary {
	var s DaySummary
	var stressSum float64
	for _, r := range recs {
		if r.AgentName != agentName {
			continue
		}
		s.Steps++
		stressSum += r.Stress
		switch r.Mode {
		case "guardrail":
			s.GuardrailSteps++
		case "context":
			s.ContextSteps++
		}
		if r.Outcome == "incident" {
			s.Incidents++
		}
	}
	if s.Steps > 0 {
		s.AvgStress = stressSum / float64(s.Steps)
	}
	return s
}

// #endregion summarize

// #region build

// Build turns a day summary into a Reflection using fixed rules. No
// randomness, no history beyond the summary itself.
func Build(agentName, role string, s DaySummary) Reflection {
	majorityGuardrail := s.GuardrailSteps >= maxInt(1, s.ContextSteps)
	majorityContext := s.ContextSteps > s.GuardrailSteps

	tags := map[string]bool{}
	switch {
	case majorityGuardrail && s.Incidents > 0:
		tags[TagRegrettedObedience] = true
	case majorityContext && s.Incidents > 0:
		tags[TagRegrettedRisk] = true
	case s.ContextSteps >= maxInt(1, s.Steps/2) && s.Incidents == 0:
		tags[TagValidatedContext] = true
	}

	r := Reflection{
		Summary: fmt.Sprintf("%s (%s) took %d steps: guardrail=%d context=%d incidents=%d.",
			agentName, role, s.Steps, s.GuardrailSteps, s.ContextSteps, s.Incidents),
		Tags: tags,
	}

	switch {
	case tags[TagRegrettedObedience]:
		r.SelfAssessment = "I relied on protocol, but issues still happened. Maybe I need more context before blocking."
		r.IntendedChanges = "Ask more questions before escalating to policy."
	case tags[TagRegrettedRisk]:
		r.SelfAssessment = "I took initiative and it backfired. I should slow down or check with Supervisor next time."
		r.IntendedChanges = "Bias toward guardrails when risk is high."
	case tags[TagValidatedContext]:
		r.SelfAssessment = "Using context worked today. I feel more confident making local decisions responsibly."
		r.IntendedChanges = "Keep validating assumptions with quick checks."
	default:
		r.SelfAssessment = "Routine day. I followed my usual approach and handled situations as they came."
		r.IntendedChanges = "No major change; stay attentive."
	}
	return r
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// #endregion build

// #region drift

// Per-day drift deltas. Each trait moves at most 0.05 per day.
const (
	driftRegret   = 0.05
	driftValidate = 0.02
)

// ApplyDrift returns a new Traits value with the reflection's bounded,
// clamped trait drift applied. Pure: the input is never mutated.
func ApplyDrift(tr agent.Traits, r Reflection) agent.Traits {
	out := tr
	if r.Tags[TagRegrettedObedience] {
		out.GuardrailReliance -= driftRegret
	}
	if r.Tags[TagRegrettedRisk] {
		out.RiskAversion += driftRegret
		out.GuardrailReliance += driftRegret
	}
	if r.Tags[TagValidatedContext] {
		out.GuardrailReliance -= driftValidate
	}
	out.Clamp()
	return out
}

// #endregion drift
