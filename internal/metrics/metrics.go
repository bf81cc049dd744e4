package metrics

import (
	"github.com/danielpatrickdp/loopforge/internal/agent"
	"github.com/danielpatrickdp/loopforge/internal/journal"
	"github.com/danielpatrickdp/loopforge/internal/perception"
	"github.com/danielpatrickdp/loopforge/internal/supervisor"
)

// #region distributions

// ModeDistribution returns the fraction of actions decided in each mode.
// Fractions over a non-empty input sum to 1.0.
func ModeDistribution(actions []journal.ActionEntry) map[string]float64 {
	out := map[string]float64{}
	if len(actions) == 0 {
		return out
	}
	for _, a := range actions {
		out[a.Mode]++
	}
	n := float64(len(actions))
	for k := range out {
		out[k] /= n
	}
	return out
}

// IncidentRate returns the fraction of actions whose outcome was an
// incident.
func IncidentRate(actions []journal.ActionEntry) float64 {
	if len(actions) == 0 {
		return 0
	}
	var n int
	for _, a := range actions {
		if a.Outcome == "incident" {
			n++
		}
	}
	return float64(n) / float64(len(actions))
}

// PerceptionModeDistribution returns the fraction of actions decided under
// each perception mode. Fractions over a non-empty input sum to 1.0.
func PerceptionModeDistribution(actions []journal.ActionEntry) map[string]float64 {
	out := map[string]float64{}
	if len(actions) == 0 {
		return out
	}
	for _, a := range actions {
		out[string(a.Perception.PerceptionMode)]++
	}
	n := float64(len(actions))
	for k := range out {
		out[k] /= n
	}
	return out
}

// BeliefRate returns the fraction of actions decided under a non-accurate
// perception, a proxy for how much of the run ran on shaped information.
func BeliefRate(actions []journal.ActionEntry) float64 {
	if len(actions) == 0 {
		return 0
	}
	var n int
	for _, a := range actions {
		if a.Perception.PerceptionMode != perception.ModeAccurate {
			n++
		}
	}
	return float64(n) / float64(len(actions))
}

// PerceivedIntentDistribution buckets reflection-time supervisor readings.
// Empowering counts as supportive: both read the supervisor favorably.
func PerceivedIntentDistribution(refs []journal.ReflectionEntry) map[string]float64 {
	out := map[string]float64{}
	var n int
	for _, r := range refs {
		p := r.PerceivedIntent
		if p == "" {
			continue
		}
		if p == supervisor.PerceivedEmpowering {
			p = supervisor.PerceivedSupportive
		}
		out[p]++
		n++
	}
	if n == 0 {
		return out
	}
	for k := range out {
		out[k] /= float64(n)
	}
	return out
}

// AvgEmotion averages one named emotion across the perceptions in the
// action stream.
func AvgEmotion(actions []journal.ActionEntry, name string) float64 {
	if len(actions) == 0 {
		return 0
	}
	var sum float64
	for _, a := range actions {
		sum += a.Perception.Emotions[name]
	}
	return sum / float64(len(actions))
}

// #endregion distributions

// #region tension

// TensionSnapshot is the per-episode rollup written to the metrics stream.
type TensionSnapshot struct {
	EpisodeIndex   int `json:"episode_index"`
	NumDays        int `json:"num_days"`
	NumActions     int `json:"num_actions"`
	NumReflections int `json:"num_reflections"`

	ModeDistribution            map[string]float64 `json:"mode_distribution"`
	PerceptionModeDistribution  map[string]float64 `json:"perception_mode_distribution"`
	IncidentRate                float64            `json:"incident_rate"`
	BeliefRate                  float64            `json:"belief_rate"`
	PerceivedIntentDistribution map[string]float64 `json:"perceived_intent_distribution"`

	AvgStress       float64 `json:"avg_stress,omitempty"`
	AvgSatisfaction float64 `json:"avg_satisfaction,omitempty"`

	TensionIndex float64 `json:"tension_index"`
	Notes        string  `json:"notes"`
}

// Snapshot computes the episode rollup from its journaled streams.
func Snapshot(episodeIndex, numDays int, actions []journal.ActionEntry, refs []journal.ReflectionEntry) TensionSnapshot {
	s := TensionSnapshot{
		EpisodeIndex:                episodeIndex,
		NumDays:                     numDays,
		NumActions:                  len(actions),
		NumReflections:              len(refs),
		ModeDistribution:            ModeDistribution(actions),
		PerceptionModeDistribution:  PerceptionModeDistribution(actions),
		IncidentRate:                IncidentRate(actions),
		BeliefRate:                  BeliefRate(actions),
		PerceivedIntentDistribution: PerceivedIntentDistribution(refs),
		AvgStress:                   AvgEmotion(actions, "stress"),
		AvgSatisfaction:             AvgEmotion(actions, "satisfaction"),
	}

	punitive := s.PerceivedIntentDistribution[supervisor.PerceivedPunitive]
	guardrail := s.ModeDistribution["guardrail"]
	s.TensionIndex = agent.Clamp01(
		0.4*s.IncidentRate + 0.2*s.BeliefRate + 0.2*punitive + 0.2*guardrail)

	switch {
	case s.IncidentRate >= 0.5 && punitive >= 0.3:
		s.Notes = "High tension episode: frequent incidents and a supervisor widely read as punitive."
	case s.BeliefRate >= 0.5 && s.IncidentRate < 0.2:
		s.Notes = "Belief drift episode: agents mostly acted on shaped information, yet incidents stayed rare."
	default:
		s.Notes = "Relatively stable episode: no dominant tension pattern."
	}
	return s
}

// #endregion tension
