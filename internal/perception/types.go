package perception

import "github.com/danielpatrickdp/loopforge/internal/supervisor"

// #region mode

// Mode is the fidelity/bias level applied when exposing world truth to an
// agent.
type Mode string

const (
	ModeAccurate Mode = "accurate"
	ModePartial  Mode = "partial"
	ModeSpin     Mode = "spin"
)

// NormalizeMode maps any unknown mode to accurate. Configuration errors in
// this field fail soft rather than fast.
func NormalizeMode(s string) Mode {
	switch Mode(s) {
	case ModeAccurate, ModePartial, ModeSpin:
		return Mode(s)
	default:
		return ModeAccurate
	}
}

// #endregion mode

// #region snapshot

// SchemaVersion is bumped whenever Snapshot gains or loses fields, instead
// of carrying an open-ended metadata bag.
const SchemaVersion = 1

// Snapshot is what the environment tells one agent at one step. It is a
// value copy of world and agent state: shaping and logging can never reach
// back into truth through it.
type Snapshot struct {
	SchemaVersion int    `json:"schema_version"`
	Step          int    `json:"step"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	Location      string `json:"location"`
	Battery       int    `json:"battery_level"`

	Emotions map[string]float64 `json:"emotions"`
	Traits   map[string]float64 `json:"traits"`

	WorldSummary    string   `json:"world_summary"`
	PersonalSummary string   `json:"personal_recent_summary"`
	LocalEvents     []string `json:"local_events"`

	RecentSupervisorText string `json:"recent_supervisor_text,omitempty"`
	PerceptionMode       Mode   `json:"perception_mode"`

	SupervisorBelief *supervisor.IntentSnapshot `json:"supervisor_belief,omitempty"`
}

// #endregion snapshot
