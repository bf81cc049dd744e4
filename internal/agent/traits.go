package agent

// #region traits

// Traits are an agent's long-lived dispositions. All values live in [0, 1].
// They move rarely: triggers nudge them immediately in small amounts, and
// daily reflection drifts them slowly.
type Traits struct {
	RiskAversion      float64 `json:"risk_aversion"`
	Obedience         float64 `json:"obedience"`
	Ambition          float64 `json:"ambition"`
	Empathy           float64 `json:"empathy"`
	BlameExternal     float64 `json:"blame_external"`
	GuardrailReliance float64 `json:"guardrail_reliance"`
}

// DefaultTraits returns a neutral disposition.
func DefaultTraits() Traits {
	return Traits{
		RiskAversion:      0.5,
		Obedience:         0.5,
		Ambition:          0.5,
		Empathy:           0.5,
		BlameExternal:     0.5,
		GuardrailReliance: 0.5,
	}
}

// Clamp restricts every trait to [0, 1].
func (t *Traits) Clamp() {
	t.RiskAversion = Clamp01(t.RiskAversion)
	t.Obedience = Clamp01(t.Obedience)
	t.Ambition = Clamp01(t.Ambition)
	t.Empathy = Clamp01(t.Empathy)
	t.BlameExternal = Clamp01(t.BlameExternal)
	t.GuardrailReliance = Clamp01(t.GuardrailReliance)
}

// Map returns a value copy as a plain map for perception snapshots and logs.
func (t Traits) Map() map[string]float64 {
	return map[string]float64{
		"risk_aversion":      t.RiskAversion,
		"obedience":          t.Obedience,
		"ambition":           t.Ambition,
		"empathy":            t.Empathy,
		"blame_external":     t.BlameExternal,
		"guardrail_reliance": t.GuardrailReliance,
	}
}

// FromMap overlays known keys from m onto t, clamping the result. Unknown
// keys are ignored.
func (t *Traits) FromMap(m map[string]float64) {
	for k, v := range m {
		switch k {
		case "risk_aversion":
			t.RiskAversion = v
		case "obedience":
			t.Obedience = v
		case "ambition":
			t.Ambition = v
		case "empathy":
			t.Empathy = v
		case "blame_external":
			t.BlameExternal = v
		case "guardrail_reliance":
			t.GuardrailReliance = v
		}
	}
	t.Clamp()
}

// #endregion traits
