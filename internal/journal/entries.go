package journal

import (
	"github.com/danielpatrickdp/loopforge/internal/perception"
	"github.com/danielpatrickdp/loopforge/internal/policy"
	"github.com/danielpatrickdp/loopforge/internal/reflection"
	"github.com/danielpatrickdp/loopforge/internal/supervisor"
)

// #region entries

// ActionEntry is one agent-step in the action stream. It carries both the
// flat legacy record and the full perception the decision saw, so a run
// can be audited without the live process.
type ActionEntry struct {
	Step      int      `json:"step"`
	AgentName string   `json:"agent_name"`
	Role      string   `json:"role"`
	Mode      string   `json:"mode"`
	Intent    string   `json:"intent"`
	MoveTo    string   `json:"move_to,omitempty"`
	Targets   []string `json:"targets,omitempty"`
	Riskiness float64  `json:"riskiness"`
	Narrative string   `json:"narrative,omitempty"`
	Outcome   string   `json:"outcome"`
	PolicyID  string   `json:"policy_id"`

	EpisodeIndex int    `json:"episode_index"`
	DayIndex     int    `json:"day_index"`
	RunID        string `json:"run_id,omitempty"`

	RawAction  policy.LegacyAction `json:"raw_action"`
	Perception perception.Snapshot `json:"perception"`
}

// ReflectionEntry is one agent's end-of-day reflection plus the trait
// state that resulted from it.
type ReflectionEntry struct {
	reflection.Reflection

	AgentName    string `json:"agent_name"`
	Role         string `json:"role"`
	DayIndex     int    `json:"day_index"`
	EpisodeIndex int    `json:"episode_index"`
	RunID        string `json:"run_id,omitempty"`

	TraitsAfter     map[string]float64 `json:"traits_after"`
	PerceptionMode  string             `json:"perception_mode"`
	PerceivedIntent string             `json:"perceived_intent,omitempty"`
}

// SupervisorEntry records one supervisor message as delivered.
type SupervisorEntry struct {
	supervisor.Message

	RunID string `json:"run_id,omitempty"`
}

// #endregion entries
