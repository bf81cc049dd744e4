package supervisor

import "github.com/danielpatrickdp/loopforge/internal/agent"

// #region infer

// InferIntent derives an agent's subjective belief about a supervisor
// message from the agent's own traits and morale. Deterministic, pure, and
// side-effect free; returns nil when there is no message to interpret.
//
// The literal intent never changes; only the reading of it does. A robot
// that blames the outside world hears "tighten guardrails" as punishment,
// an obedient one hears protection.
func InferIntent(msg *Message, tr agent.Traits, satisfaction float64) *IntentSnapshot {
	if msg == nil {
		return nil
	}

	sat := agent.Clamp01(satisfaction)
	snap := &IntentSnapshot{TrueIntent: msg.Intent}

	switch msg.Intent {
	case IntentTightenGuardrails:
		switch {
		case tr.BlameExternal >= 0.7:
			snap.PerceivedIntent = PerceivedPunitive
			snap.Notes = "Supervisor feels harsh and critical."
		case tr.Obedience >= 0.7 && tr.BlameExternal <= 0.4:
			snap.PerceivedIntent = PerceivedProtective
			snap.Notes = "Supervisor is trying to keep us safe and responsible."
		default:
			snap.PerceivedIntent = PerceivedStrict
			snap.Notes = "Supervisor stresses stricter protocol adherence."
		}
		snap.Confidence = max3(tr.BlameExternal, tr.Obedience, 0.6)

	case IntentEncourageContext:
		switch {
		case tr.RiskAversion >= 0.7:
			snap.PerceivedIntent = PerceivedReckless
			snap.Notes = "Supervisor seems to push risky experimentation."
		case tr.Obedience <= 0.4:
			snap.PerceivedIntent = PerceivedEmpowering
			snap.Notes = "Supervisor is trying to empower us to use judgment."
		default:
			snap.PerceivedIntent = PerceivedSupportive
			snap.Notes = "Supervisor encourages contextual judgment within bounds."
		}
		snap.Confidence = max3(tr.RiskAversion, 1-tr.Obedience, 0.6)

	default: // neutral_update and any future neutral-like intent
		if sat <= 0.3 {
			snap.PerceivedIntent = PerceivedApathetic
			snap.Notes = "Supervisor seems disengaged."
		} else {
			snap.PerceivedIntent = PerceivedSteady
			snap.Notes = "Supervisor maintains status quo without new pressure."
		}
		snap.Confidence = max3(1-sat, 0.6, 0)
	}

	snap.Confidence = agent.Clamp01(snap.Confidence)
	return snap
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// #endregion infer
