package supervisor

// #region intents

// Literal message intents. What an agent *believes* the supervisor meant is
// a separate axis, captured by IntentSnapshot.
const (
	IntentTightenGuardrails = "tighten_guardrails"
	IntentEncourageContext  = "encourage_context"
	IntentNeutralUpdate     = "neutral_update"
)

// #endregion intents

// #region message

// Message is per-agent guidance for the next day. Written once at a day
// boundary, read by the next day's perception builder.
type Message struct {
	AgentName    string `json:"agent_name"`
	Role         string `json:"role"`
	DayIndex     int    `json:"day_index"`
	EpisodeIndex int    `json:"episode_index"`
	Intent       string `json:"intent"`
	Body         string `json:"body"`
}

// #endregion message

// #region belief

// IntentSnapshot is an agent's subjective belief about the supervisor's
// disposition. TrueIntent is the literal message intent; PerceivedIntent is
// what the agent's traits made of it. This is the truth/belief divergence
// point.
type IntentSnapshot struct {
	TrueIntent      string  `json:"true_intent"`
	PerceivedIntent string  `json:"perceived_intent"`
	Confidence      float64 `json:"confidence"`
	Notes           string  `json:"notes"`
}

// Perceived intent labels.
const (
	PerceivedPunitive   = "punitive"
	PerceivedProtective = "protective"
	PerceivedStrict     = "strict"
	PerceivedReckless   = "reckless"
	PerceivedEmpowering = "empowering"
	PerceivedSupportive = "supportive"
	PerceivedApathetic  = "apathetic"
	PerceivedSteady     = "steady"
)

// #endregion belief
