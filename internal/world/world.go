package world

// #region rooms

// DefaultRooms is the standard Loopforge City floor plan.
var DefaultRooms = []string{"factory_floor", "control_room", "charging_bay", "street"}

// #endregion rooms

// #region event

// Environment event types.
const (
	EventIncident   = "Incident"
	EventMinorError = "MinorError"
	EventInfo       = "Info"
)

// EnvironmentEvent is an append-only fact about the world. Never mutated
// after creation.
type EnvironmentEvent struct {
	Type        string `json:"event_type"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Step        int    `json:"step"`
}

// #endregion event

// #region trace

// ActionTrace is the minimal record of an applied action kept on the world
// for event derivation. The full decision record lives in the journal.
type ActionTrace struct {
	AgentName string
	Intent    string
	Location  string
	Stress    float64
	Step      int
}

// #endregion trace

// #region world-struct

// World holds shared environment truth: rooms, the step counter, a bounded
// event buffer, the last supervisor broadcast, and per-agent supervisor
// mailboxes. It contains no decision logic.
type World struct {
	Rooms []string
	Step  int

	// Broadcast is the last supervisor broadcast text, visible to everyone.
	Broadcast string

	events    []EnvironmentEvent
	maxEvents int

	recent    []ActionTrace
	maxRecent int

	// mailboxes holds one supervisor note per agent. Written only at day
	// boundaries by the orchestrator; read-only during a day.
	mailboxes map[string]string
}

// New creates a world with the given rooms (DefaultRooms if nil).
func New(rooms []string) *World {
	if len(rooms) == 0 {
		rooms = DefaultRooms
	}
	rs := make([]string, len(rooms))
	copy(rs, rooms)
	return &World{
		Rooms:     rs,
		maxEvents: 64,
		maxRecent: 64,
		mailboxes: make(map[string]string),
	}
}

// Advance moves the world forward one step.
func (w *World) Advance() {
	w.Step++
}

// #endregion world-struct

// #region events

// RecordEvent appends an event to the bounded buffer. The oldest entry is
// dropped when the buffer is full.
func (w *World) RecordEvent(evt EnvironmentEvent) {
	if len(w.events) >= w.maxEvents {
		w.events = w.events[1:]
	}
	w.events = append(w.events, evt)
}

// DrainEvents returns and clears the buffered events. The caller decides
// persistence timing.
func (w *World) DrainEvents() []EnvironmentEvent {
	out := make([]EnvironmentEvent, len(w.events))
	copy(out, w.events)
	w.events = w.events[:0]
	return out
}

// EventsAt returns copies of buffered events at a location within the last
// `window` steps, newest last.
func (w *World) EventsAt(location string, window int) []EnvironmentEvent {
	var out []EnvironmentEvent
	for _, e := range w.events {
		if e.Location == location && e.Step >= w.Step-window {
			out = append(out, e)
		}
	}
	return out
}

// RecentErrorCount counts MinorError and Incident events at a location
// within the last `window` steps.
func (w *World) RecentErrorCount(location string, window int) int {
	n := 0
	for _, e := range w.events {
		if e.Location != location || e.Step < w.Step-window {
			continue
		}
		if e.Type == EventMinorError || e.Type == EventIncident {
			n++
		}
	}
	return n
}

// #endregion events

// #region traces

// TraceAction records an applied action in the bounded history.
func (w *World) TraceAction(tr ActionTrace) {
	if len(w.recent) >= w.maxRecent {
		w.recent = w.recent[1:]
	}
	w.recent = append(w.recent, tr)
}

// LastTrace returns the most recent trace for an agent, or false if none.
func (w *World) LastTrace(agentName string) (ActionTrace, bool) {
	for i := len(w.recent) - 1; i >= 0; i-- {
		if w.recent[i].AgentName == agentName {
			return w.recent[i], true
		}
	}
	return ActionTrace{}, false
}

// Traces returns a copy of the recent action history, oldest first.
func (w *World) Traces() []ActionTrace {
	out := make([]ActionTrace, len(w.recent))
	copy(out, w.recent)
	return out
}

// #endregion traces

// #region mailbox

// SetSupervisorNote writes the single-slot supervisor note for an agent.
// Only the day orchestrator should call this.
func (w *World) SetSupervisorNote(agentName, text string) {
	w.mailboxes[agentName] = text
}

// SupervisorNote returns the agent's mailbox note, falling back to the
// last broadcast when the mailbox is empty.
func (w *World) SupervisorNote(agentName string) string {
	if note, ok := w.mailboxes[agentName]; ok && note != "" {
		return note
	}
	return w.Broadcast
}

// #endregion mailbox
