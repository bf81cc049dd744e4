package agent

// #region clamp

// Clamp01 restricts v to [0, 1]. Every emotion and trait mutation in the
// simulation ends with a clamp, so out-of-range values are impossible by
// construction.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion clamp

// #region emotions

// EmotionState holds the four core affective dimensions for an agent.
// All values live in [0, 1].
type EmotionState struct {
	Stress       float64 `json:"stress"`
	Curiosity    float64 `json:"curiosity"`
	SocialNeed   float64 `json:"social_need"`
	Satisfaction float64 `json:"satisfaction"`
}

// DefaultEmotions returns the standard starting affect for a robot.
func DefaultEmotions() EmotionState {
	return EmotionState{
		Stress:       0.2,
		Curiosity:    0.5,
		SocialNeed:   0.5,
		Satisfaction: 0.5,
	}
}

// Clamp restricts every dimension to [0, 1].
func (e *EmotionState) Clamp() {
	e.Stress = Clamp01(e.Stress)
	e.Curiosity = Clamp01(e.Curiosity)
	e.SocialNeed = Clamp01(e.SocialNeed)
	e.Satisfaction = Clamp01(e.Satisfaction)
}

// Map returns a value copy as a plain map for perception snapshots and logs.
func (e EmotionState) Map() map[string]float64 {
	return map[string]float64{
		"stress":       e.Stress,
		"curiosity":    e.Curiosity,
		"social_need":  e.SocialNeed,
		"satisfaction": e.Satisfaction,
	}
}

// #endregion emotions
