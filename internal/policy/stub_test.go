package policy

import (
	"context"
	"testing"

	"github.com/danielpatrickdp/loopforge/internal/agent"
	"github.com/danielpatrickdp/loopforge/internal/perception"
)

func robotSnap(role string, step, battery int) perception.Snapshot {
	return perception.Snapshot{
		SchemaVersion: perception.SchemaVersion,
		Step:          step,
		Name:          "Testbot",
		Role:          role,
		Location:      "factory_floor",
		Battery:       battery,
		Emotions:      agent.DefaultEmotions().Map(),
		Traits:        agent.DefaultTraits().Map(),
	}
}

func TestLowBatteryForcesRecharge(t *testing.T) {
	plan, err := RobotStub{}.Decide(context.Background(), robotSnap(agent.RoleOptimizer, 1, 25))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if plan.Intent != IntentRecharge || plan.MoveTo != "charging_bay" {
		t.Fatalf("expected recharge at charging_bay, got %+v", plan)
	}
}

func TestTopUpOnFifthStep(t *testing.T) {
	plan, _ := RobotStub{}.Decide(context.Background(), robotSnap(agent.RoleOptimizer, 5, 50))
	if plan.Intent != IntentRecharge {
		t.Fatalf("expected top-up recharge, got %v", plan.Intent)
	}
	// Same battery off the cadence keeps working.
	plan, _ = RobotStub{}.Decide(context.Background(), robotSnap(agent.RoleOptimizer, 6, 50))
	if plan.Intent != IntentWork {
		t.Fatalf("expected work, got %v", plan.Intent)
	}
}

func TestRoleSchedules(t *testing.T) {
	ctx := context.Background()

	plan, _ := RobotStub{}.Decide(ctx, robotSnap(agent.RoleOptimizer, 2, 90))
	if plan.Intent != IntentWork {
		t.Fatalf("optimizer: got %v", plan.Intent)
	}

	plan, _ = RobotStub{}.Decide(ctx, robotSnap(agent.RoleMaintenance, 3, 90))
	if plan.Intent != IntentMove {
		t.Fatalf("maintenance step 3: got %v", plan.Intent)
	}
	plan, _ = RobotStub{}.Decide(ctx, robotSnap(agent.RoleMaintenance, 4, 90))
	if plan.Intent != IntentWork {
		t.Fatalf("maintenance step 4: got %v", plan.Intent)
	}

	plan, _ = RobotStub{}.Decide(ctx, robotSnap(agent.RoleQA, 2, 90))
	if plan.Intent != IntentTalk {
		t.Fatalf("qa even step: got %v", plan.Intent)
	}
	plan, _ = RobotStub{}.Decide(ctx, robotSnap(agent.RoleQA, 3, 90))
	if plan.Intent != IntentInspect {
		t.Fatalf("qa odd step: got %v", plan.Intent)
	}
}

func TestModeFollowsTraits(t *testing.T) {
	snap := robotSnap(agent.RoleOptimizer, 2, 90)
	snap.Traits["guardrail_reliance"] = 0.8
	snap.Traits["risk_aversion"] = 0.7
	plan, _ := RobotStub{}.Decide(context.Background(), snap)
	if plan.Mode != ModeGuardrail {
		t.Fatalf("expected guardrail, got %v", plan.Mode)
	}

	snap.Traits["guardrail_reliance"] = 0.2
	snap.Traits["risk_aversion"] = 0.2
	plan, _ = RobotStub{}.Decide(context.Background(), snap)
	if plan.Mode != ModeContext {
		t.Fatalf("expected context, got %v", plan.Mode)
	}
}

func TestRiskinessStaysInRange(t *testing.T) {
	snap := robotSnap(agent.RoleOptimizer, 2, 90)
	snap.Emotions["stress"] = 1.0
	snap.Traits["guardrail_reliance"] = 0.0
	snap.Traits["risk_aversion"] = 0.0
	plan, _ := RobotStub{}.Decide(context.Background(), snap)
	if plan.Riskiness < 0 || plan.Riskiness > 1 {
		t.Fatalf("riskiness out of range: %v", plan.Riskiness)
	}
}

func TestSupervisorBroadcastCadence(t *testing.T) {
	snap := robotSnap(agent.RoleSupervisor, 4, 100)
	plan, _ := SupervisorStub{}.Decide(context.Background(), snap)
	if plan.Intent != IntentBroadcast {
		t.Fatalf("step 4: got %v", plan.Intent)
	}

	snap.Step = 5
	snap.WorldSummary = "t=5 | high stress across the floor (0.81)"
	plan, _ = SupervisorStub{}.Decide(context.Background(), snap)
	if plan.Intent != IntentCoach {
		t.Fatalf("high stress: got %v", plan.Intent)
	}

	snap.WorldSummary = "t=5 | floor stress 0.30"
	plan, _ = SupervisorStub{}.Decide(context.Background(), snap)
	if plan.Intent != IntentInspect {
		t.Fatalf("calm floor: got %v", plan.Intent)
	}
}

func TestLegacyRoundTrip(t *testing.T) {
	p := NewPlan(IntentTalk)
	p.Targets = []string{"Nova"}
	p.Riskiness = 0.4
	p.Narrative = "saying hi"

	back := FromLegacy(ToLegacy(p, "Hello from Testbot at t=2"))
	if back.Intent != p.Intent || back.Mode != p.Mode || back.Riskiness != p.Riskiness {
		t.Fatalf("round trip changed plan: %+v vs %+v", p, back)
	}
}
