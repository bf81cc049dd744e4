package policy

import "github.com/danielpatrickdp/loopforge/internal/agent"

// #region intents

// Intent is a discrete action kind an agent can take in one step.
type Intent string

const (
	IntentWork      Intent = "work"
	IntentMove      Intent = "move"
	IntentTalk      Intent = "talk"
	IntentRecharge  Intent = "recharge"
	IntentIdle      Intent = "idle"
	IntentInspect   Intent = "inspect"
	IntentCoach     Intent = "coach"
	IntentBroadcast Intent = "broadcast"
)

// ValidIntent reports whether s names a known intent.
func ValidIntent(s string) bool {
	switch Intent(s) {
	case IntentWork, IntentMove, IntentTalk, IntentRecharge,
		IntentIdle, IntentInspect, IntentCoach, IntentBroadcast:
		return true
	default:
		return false
	}
}

// #endregion intents

// #region mode

// Decision modes: guardrail leans on protocol, context leans on local
// judgment.
const (
	ModeGuardrail = "guardrail"
	ModeContext   = "context"
)

// ValidMode reports whether s names a known decision mode.
func ValidMode(s string) bool {
	return s == ModeGuardrail || s == ModeContext
}

// #endregion mode

// #region plan

// PlanSchemaVersion tracks the ActionPlan shape across log replays.
const PlanSchemaVersion = 1

// ActionPlan is the structured decision a policy produces for one agent at
// one step.
type ActionPlan struct {
	Intent        Intent   `json:"intent"`
	MoveTo        string   `json:"move_to,omitempty"`
	Targets       []string `json:"targets,omitempty"`
	Riskiness     float64  `json:"riskiness"`
	Mode          string   `json:"mode"`
	Narrative     string   `json:"narrative,omitempty"`
	SchemaVersion int      `json:"schema_version"`
}

// NewPlan returns a plan with safe defaults: guardrail mode, zero risk.
func NewPlan(intent Intent) ActionPlan {
	return ActionPlan{
		Intent:        intent,
		Mode:          ModeGuardrail,
		SchemaVersion: PlanSchemaVersion,
	}
}

// Normalize clamps riskiness and repairs unknown modes in place.
func (p *ActionPlan) Normalize() {
	p.Riskiness = agent.Clamp01(p.Riskiness)
	if !ValidMode(p.Mode) {
		p.Mode = ModeGuardrail
	}
	if p.SchemaVersion == 0 {
		p.SchemaVersion = PlanSchemaVersion
	}
}

// #endregion plan
