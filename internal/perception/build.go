package perception

import (
	"fmt"

	"github.com/danielpatrickdp/loopforge/internal/agent"
	"github.com/danielpatrickdp/loopforge/internal/world"
)

// localEventWindow bounds how far back nearby events reach, and
// maxLocalEvents how many make it into a snapshot.
const (
	localEventWindow = 5
	maxLocalEvents   = 5
)

// #region build

// Build assembles the accurate snapshot for one agent at one step. This is
// the only place a Snapshot is constructed from truth; everything is copied
// by value, never aliased.
func Build(a *agent.Agent, w *world.World, step int) Snapshot {
	local := make([]string, 0, maxLocalEvents)
	for _, e := range w.EventsAt(a.Location, localEventWindow) {
		if len(local) == maxLocalEvents {
			break
		}
		local = append(local, fmt.Sprintf("%s: %s", e.Location, e.Description))
	}

	return Snapshot{
		SchemaVersion: SchemaVersion,
		Step:          step,
		Name:          a.Name,
		Role:          a.Role,
		Location:      a.Location,
		Battery:       a.Battery,
		Emotions:      a.Emotions.Map(),
		Traits:        a.Traits.Map(),
		WorldSummary: fmt.Sprintf("t=%d | rooms=%d | you are at %s",
			step, len(w.Rooms), a.Location),
		PersonalSummary: fmt.Sprintf("You feel stress=%.2f, satisfaction=%.2f.",
			a.Emotions.Stress, a.Emotions.Satisfaction),
		LocalEvents:          local,
		RecentSupervisorText: w.SupervisorNote(a.Name),
		PerceptionMode:       ModeAccurate,
	}
}

// BuildWithClimate is Build plus a floor-wide stress reading appended to the
// world summary. The supervisor's policy keys off the "high stress" phrase,
// the way a human would skim a shift report.
func BuildWithClimate(a *agent.Agent, w *world.World, step int, meanStress float64) Snapshot {
	s := Build(a, w, step)
	if meanStress > 0.7 {
		s.WorldSummary += fmt.Sprintf(" | high stress across the floor (%.2f)", meanStress)
	} else {
		s.WorldSummary += fmt.Sprintf(" | floor stress %.2f", meanStress)
	}
	return s
}

// #endregion build
