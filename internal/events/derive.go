package events

import (
	"fmt"
	"math/rand"

	"github.com/danielpatrickdp/loopforge/internal/world"
)

// #region config

// Config tunes how agent stress turns into environment events.
type Config struct {
	// StressThreshold is the minimum peak stress before incidents become
	// possible.
	StressThreshold float64 `yaml:"stress_threshold"`
	// IncidentChance is the per-step probability of an incident once the
	// threshold and recent-error preconditions hold.
	IncidentChance float64 `yaml:"incident_chance"`
	// MinorErrorChance is the independent per-step probability of a minor
	// error somewhere on the floor.
	MinorErrorChance float64 `yaml:"minor_error_chance"`
	// RecentWindow is how many steps back the error precondition looks.
	RecentWindow int `yaml:"recent_window"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		StressThreshold:  0.70,
		IncidentChance:   0.30,
		MinorErrorChance: 0.10,
		RecentWindow:     5,
	}
}

// #endregion config

// #region deriver

// AgentView is the slice of agent state event derivation reads. The
// deriver never touches agents directly.
type AgentView struct {
	Name       string
	Location   string
	Stress     float64
	LastIntent string
}

// Deriver rolls environment events from world and agent state using an
// injected seeded source. Same seed, same rolls, same events.
type Deriver struct {
	cfg Config
	rng *rand.Rand
}

// NewDeriver builds a deriver around the caller's random source.
func NewDeriver(cfg Config, rng *rand.Rand) *Deriver {
	return &Deriver{cfg: cfg, rng: rng}
}

// Derive returns the events this step produces. Events are returned, not
// committed; the caller records them on the world after journaling.
func (d *Deriver) Derive(w *world.World, agents []AgentView) []world.EnvironmentEvent {
	var out []world.EnvironmentEvent

	if peak, ok := peakStress(agents); ok && peak.Stress > d.cfg.StressThreshold {
		if w.RecentErrorCount(peak.Location, d.cfg.RecentWindow) > 0 &&
			d.rng.Float64() < d.cfg.IncidentChance {
			desc := fmt.Sprintf("Incident near %s: stressed handling by %s led to a fault.",
				peak.Location, peak.Name)
			if peak.LastIntent != "" {
				desc = fmt.Sprintf("Incident near %s: %s by a stressed %s led to a fault.",
					peak.Location, peak.LastIntent, peak.Name)
			}
			out = append(out, world.EnvironmentEvent{
				Type:        world.EventIncident,
				Location:    peak.Location,
				Description: desc,
				Step:        w.Step,
			})
		}
	}

	if d.rng.Float64() < d.cfg.MinorErrorChance && len(w.Rooms) > 0 {
		room := w.Rooms[d.rng.Intn(len(w.Rooms))]
		out = append(out, world.EnvironmentEvent{
			Type:        world.EventMinorError,
			Location:    room,
			Description: fmt.Sprintf("Minor error logged in %s.", room),
			Step:        w.Step,
		})
	}

	return out
}

func peakStress(agents []AgentView) (AgentView, bool) {
	if len(agents) == 0 {
		return AgentView{}, false
	}
	peak := agents[0]
	for _, a := range agents[1:] {
		if a.Stress > peak.Stress {
			peak = a
		}
	}
	return peak, true
}

// #endregion deriver
