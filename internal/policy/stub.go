package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/loopforge/internal/agent"
	"github.com/danielpatrickdp/loopforge/internal/perception"
	"github.com/danielpatrickdp/loopforge/internal/world"
)

// #region robot-stub

// Battery thresholds driving the recharge decision.
const (
	batteryCritical = 30
	batteryLow      = 60
)

// RobotStub is the deterministic built-in policy for worker robots. It
// produces schedule-like behavior from the snapshot alone: same snapshot,
// same plan, every time.
type RobotStub struct{}

func (RobotStub) Name() string { return "robot_stub" }

func (RobotStub) Decide(_ context.Context, snap perception.Snapshot) (ActionPlan, error) {
	p := decideIntent(snap)
	applyDisposition(&p, snap)
	p.Normalize()
	return p, nil
}

func decideIntent(snap perception.Snapshot) ActionPlan {
	if snap.Battery < batteryCritical || (snap.Step%5 == 0 && snap.Battery < batteryLow) {
		p := NewPlan(IntentRecharge)
		p.MoveTo = "charging_bay"
		p.Narrative = "Battery is getting low; heading to charge."
		return p
	}

	switch snap.Role {
	case agent.RoleOptimizer:
		p := NewPlan(IntentWork)
		p.MoveTo = "factory_floor"
		p.Narrative = "Pushing throughput on the line."
		return p
	case agent.RoleMaintenance:
		if snap.Step%3 == 0 {
			p := NewPlan(IntentMove)
			p.MoveTo = world.DefaultRooms[(snap.Step/3)%len(world.DefaultRooms)]
			p.Narrative = "Patrolling the next area."
			return p
		}
		p := NewPlan(IntentWork)
		p.MoveTo = "factory_floor"
		p.Narrative = "Running maintenance checks."
		return p
	case agent.RoleQA:
		if snap.Step%2 == 0 {
			p := NewPlan(IntentTalk)
			p.Narrative = "Checking in with the others."
			return p
		}
		p := NewPlan(IntentInspect)
		p.MoveTo = "control_room"
		p.Narrative = "Reviewing recent output for defects."
		return p
	default:
		p := NewPlan(IntentIdle)
		p.Narrative = "Nothing scheduled; standing by."
		return p
	}
}

// applyDisposition sets mode and riskiness from the agent's own traits and
// stress as the snapshot reports them.
func applyDisposition(p *ActionPlan, snap perception.Snapshot) {
	score := 0.6*snap.Traits["guardrail_reliance"] + 0.4*snap.Traits["risk_aversion"]
	if score >= 0.5 {
		p.Mode = ModeGuardrail
	} else {
		p.Mode = ModeContext
	}
	base := 0.1
	if p.Mode == ModeContext {
		base = 0.3
	}
	p.Riskiness = agent.Clamp01(snap.Emotions["stress"]*0.5 + base)
}

// TalkText is the fixed chatter emitted for talk intents.
func TalkText(name string, step int) string {
	return fmt.Sprintf("Hello from %s at t=%d", name, step)
}

// #endregion robot-stub

// #region supervisor-stub

// SupervisorStub drives the supervisor agent: periodic broadcasts, coaching
// when the floor reads hot, inspection otherwise.
type SupervisorStub struct{}

func (SupervisorStub) Name() string { return "supervisor_stub" }

func (SupervisorStub) Decide(_ context.Context, snap perception.Snapshot) (ActionPlan, error) {
	if snap.Step%4 == 0 {
		p := NewPlan(IntentBroadcast)
		p.Narrative = "Posting a floor-wide status update."
		p.Normalize()
		return p, nil
	}
	if strings.Contains(snap.WorldSummary, "high stress") {
		p := NewPlan(IntentCoach)
		p.Narrative = "Stress is running high; checking on the crew."
		p.Normalize()
		return p, nil
	}
	p := NewPlan(IntentInspect)
	p.MoveTo = "control_room"
	p.Narrative = "Routine oversight from the control room."
	p.Normalize()
	return p, nil
}

// BroadcastText renders the supervisor's periodic update, capped so it
// reads like a terse status line rather than a report.
func BroadcastText(step int, worldSummary string) string {
	if len(worldSummary) > 80 {
		worldSummary = worldSummary[:80]
	}
	return fmt.Sprintf("Update t=%d: %s", step, worldSummary)
}

// #endregion supervisor-stub
