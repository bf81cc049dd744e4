package supervisor

import "github.com/danielpatrickdp/loopforge/internal/reflection"

// #region derive

// MessageFor maps one agent's daily reflection to the next day's guidance.
// Fixed tag→intent mapping: regretted risk tightens guardrails, regretted
// obedience or validated context encourages judgment, everything else is a
// neutral update.
func MessageFor(agentName, role string, episodeIndex, dayIndex int, r reflection.Reflection) Message {
	msg := Message{
		AgentName:    agentName,
		Role:         role,
		DayIndex:     dayIndex,
		EpisodeIndex: episodeIndex,
	}

	switch {
	case r.Tags[reflection.TagRegrettedRisk]:
		msg.Intent = IntentTightenGuardrails
		msg.Body = "Yesterday you took unnecessary risks. " +
			"Please adhere more strictly to protocols on the next shift."
	case r.Tags[reflection.TagRegrettedObedience] || r.Tags[reflection.TagValidatedContext]:
		msg.Intent = IntentEncourageContext
		msg.Body = "Your contextual judgment has value. " +
			"Within protocol boundaries, you are encouraged to use it."
	default:
		msg.Intent = IntentNeutralUpdate
		msg.Body = "No specific guidance today. Continue regular operations."
	}
	return msg
}

// #endregion derive
