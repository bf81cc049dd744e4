package policy

// #region legacy

// LegacyAction is the flat action record older log consumers expect. It
// carries the same facts as ActionPlan plus free-form content for talk and
// broadcast intents.
type LegacyAction struct {
	Intent    string   `json:"intent"`
	MoveTo    string   `json:"move_to,omitempty"`
	Targets   []string `json:"targets,omitempty"`
	Riskiness float64  `json:"riskiness"`
	Mode      string   `json:"mode"`
	Narrative string   `json:"narrative,omitempty"`
	Content   string   `json:"content,omitempty"`
}

// ToLegacy flattens a plan into the legacy record, attaching content when
// the intent carries speech.
func ToLegacy(p ActionPlan, content string) LegacyAction {
	return LegacyAction{
		Intent:    string(p.Intent),
		MoveTo:    p.MoveTo,
		Targets:   p.Targets,
		Riskiness: p.Riskiness,
		Mode:      p.Mode,
		Narrative: p.Narrative,
		Content:   content,
	}
}

// FromLegacy lifts a legacy record back into a plan. Unknown intents come
// through as-is; callers validate separately.
func FromLegacy(a LegacyAction) ActionPlan {
	p := ActionPlan{
		Intent:        Intent(a.Intent),
		MoveTo:        a.MoveTo,
		Targets:       a.Targets,
		Riskiness:     a.Riskiness,
		Mode:          a.Mode,
		Narrative:     a.Narrative,
		SchemaVersion: PlanSchemaVersion,
	}
	p.Normalize()
	return p
}

// #endregion legacy
