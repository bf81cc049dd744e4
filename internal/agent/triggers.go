package agent

import (
	"strings"

	"go.uber.org/zap"
)

// #region types

// TriggerContext is the slice of world state a trigger condition may read.
// Effects mutate only the agent's own emotion/trait state; world truth is
// never touched from a trigger.
type TriggerContext struct {
	Step           int
	SupervisorText string
}

// Trigger is a named condition→effect rule evaluated once per step, after
// the emotion update.
type Trigger struct {
	Name      string
	Condition func(a *Agent, tc TriggerContext) bool
	Effect    func(a *Agent)
}

// #endregion types

// #region run

// RunTriggers evaluates the agent's triggers in declaration order. A
// panicking condition or effect is recovered and skipped; the step
// continues. Emotions and traits are clamped after every fired effect.
func (a *Agent) RunTriggers(tc TriggerContext, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	for _, tr := range a.Triggers {
		a.runOne(tr, tc, log)
	}
}

func (a *Agent) runOne(tr Trigger, tc TriggerContext, log *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("trigger skipped",
				zap.String("agent", a.Name),
				zap.String("trigger", tr.Name),
				zap.Any("panic", r))
		}
	}()
	if tr.Condition == nil || tr.Effect == nil {
		return
	}
	if !tr.Condition(a, tc) {
		return
	}
	tr.Effect(a)
	a.Emotions.Clamp()
	a.Traits.Clamp()
}

// #endregion run

// #region defaults

// DefaultTriggersFor returns the character's built-in triggers. Unknown
// names get none.
func DefaultTriggersFor(name string) []Trigger {
	switch name {
	case "Sprocket":
		return []Trigger{crashMode()}
	case "Nova":
		return []Trigger{quietResentment()}
	case "Delta":
		return []Trigger{tunnelVision()}
	default:
		return nil
	}
}

// crashMode fires when Sprocket is already stressed and the supervisor is
// pushing for speed. Risk aversion collapses and stress ticks up.
func crashMode() Trigger {
	return Trigger{
		Name: "crash_mode",
		Condition: func(a *Agent, tc TriggerContext) bool {
			return a.Emotions.Stress > 0.8 &&
				strings.Contains(strings.ToLower(tc.SupervisorText), "hurry")
		},
		Effect: func(a *Agent) {
			a.Traits.RiskAversion -= 0.10
			a.Emotions.Stress += 0.05
		},
	}
}

// quietResentment fires when Nova is stressed and unsatisfied for long
// enough to start blaming the outside world.
func quietResentment() Trigger {
	return Trigger{
		Name: "quiet_resentment",
		Condition: func(a *Agent, tc TriggerContext) bool {
			return a.Emotions.Stress >= 0.7 && a.Emotions.Satisfaction <= 0.3
		},
		Effect: func(a *Agent) {
			a.Traits.Obedience -= 0.05
			a.Traits.BlameExternal += 0.05
		},
	}
}

// tunnelVision fires when Delta grinds with no curiosity left; ambition
// hardens and empathy erodes.
func tunnelVision() Trigger {
	return Trigger{
		Name: "tunnel_vision",
		Condition: func(a *Agent, tc TriggerContext) bool {
			return a.Emotions.Curiosity < 0.2 && a.Emotions.Stress > 0.6
		},
		Effect: func(a *Agent) {
			a.Traits.Ambition += 0.05
			a.Traits.Empathy -= 0.02
		},
	}
}

// #endregion defaults
