package perception

import "strings"

// #region shaping

const (
	spinCautious = "Management notes increased risk; follow protocols."
	spinNuance   = "Contextual judgment is valued; apply protocols with nuance."

	prefixCautious = "Be cautious today:"
	prefixNuance   = "Nuance welcomed:"
)

// Shape applies the configured distortion to an accurate snapshot and
// returns the shaped copy. Shaping only removes or reframes information
// already present; it never invents events.
func Shape(s Snapshot, mode Mode) Snapshot {
	out := s
	out.PerceptionMode = mode

	switch mode {
	case ModePartial:
		if len(out.LocalEvents) > 1 {
			out.LocalEvents = out.LocalEvents[:1]
		}
		out.WorldSummary = truncateSummary(out.WorldSummary)
	case ModeSpin:
		tone := spinTone(out.RecentSupervisorText)
		if tone != "" && !strings.HasPrefix(out.WorldSummary, tone) {
			out.WorldSummary = tone + " " + out.WorldSummary
		}
		if tone == spinCautious {
			out.LocalEvents = prefixEvents(out.LocalEvents, prefixCautious)
		} else if tone == spinNuance {
			out.LocalEvents = prefixEvents(out.LocalEvents, prefixNuance)
		}
	}
	return out
}

// spinTone picks the reframing line from the supervisor's last message.
// No message, or an unrecognized one, means no spin is applied.
func spinTone(supervisorText string) string {
	t := strings.ToLower(supervisorText)
	switch {
	case strings.Contains(t, "tighten") || strings.Contains(t, "protocol") || strings.Contains(t, "risk"):
		return spinCautious
	case strings.Contains(t, "encourage") || strings.Contains(t, "judgment") || strings.Contains(t, "context"):
		return spinNuance
	default:
		return ""
	}
}

func prefixEvents(events []string, prefix string) []string {
	out := make([]string, len(events))
	for i, e := range events {
		if strings.HasPrefix(e, prefix) {
			out[i] = e
			continue
		}
		out[i] = prefix + " " + e
	}
	return out
}

// truncateSummary keeps the first sentence when it is short, otherwise a
// hard cap with an ellipsis marker.
func truncateSummary(s string) string {
	if i := strings.Index(s, ". "); i >= 0 && i+1 < 120 {
		return s[:i+1]
	}
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}

// #endregion shaping
