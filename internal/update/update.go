package update

import (
	"github.com/danielpatrickdp/loopforge/internal/agent"
	"github.com/danielpatrickdp/loopforge/internal/policy"
)

// #region flags

// Flags carry the situational context an action resolved under.
type Flags struct {
	// NearError is set when recent errors occurred in the agent's room.
	NearError bool
	// Isolated is set when the agent ended the step alone in its room.
	Isolated bool
}

// #endregion flags

// #region deltas

// Per-intent emotion deltas. Values are additive and applied before the
// final clamp.
type intentDelta struct {
	stress       float64
	curiosity    float64
	socialNeed   float64
	satisfaction float64
}

var intentDeltas = map[policy.Intent]intentDelta{
	policy.IntentWork:      {stress: 0.10, satisfaction: 0.05, curiosity: 0.02},
	policy.IntentMove:      {curiosity: 0.05},
	policy.IntentTalk:      {socialNeed: -0.15, satisfaction: 0.05},
	policy.IntentRecharge:  {stress: -0.20, satisfaction: 0.10},
	policy.IntentIdle:      {stress: -0.05},
	policy.IntentInspect:   {curiosity: 0.03},
	policy.IntentCoach:     {satisfaction: 0.05},
	policy.IntentBroadcast: {satisfaction: 0.02},
}

// #endregion deltas

// #region apply

// Apply is a pure function computing the next emotion state from the
// current one, the resolved intent, and situational flags. Order is fixed:
// baseline drift, intent effect, flag effects, clamp.
func Apply(e agent.EmotionState, intent policy.Intent, flags Flags) agent.EmotionState {
	out := e

	// Baseline drift toward rest.
	out.Stress -= 0.01
	out.SocialNeed -= 0.005
	out.Curiosity += 0.005

	if d, ok := intentDeltas[intent]; ok {
		out.Stress += d.stress
		out.Curiosity += d.curiosity
		out.SocialNeed += d.socialNeed
		out.Satisfaction += d.satisfaction
	}

	if flags.NearError {
		out.Stress += 0.05
		out.Curiosity += 0.03
	}
	if flags.Isolated {
		out.SocialNeed += 0.05
		out.Satisfaction -= 0.03
	}

	out.Clamp()
	return out
}

// #endregion apply
