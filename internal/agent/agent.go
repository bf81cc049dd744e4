package agent

// #region roles

// Well-known roles.
const (
	RoleMaintenance = "maintenance"
	RoleOptimizer   = "optimizer"
	RoleQA          = "qa"
	RoleSupervisor  = "supervisor"
)

// #endregion roles

// #region agent-struct

// Agent is the in-memory state for one actor: identity, position, battery,
// affect, disposition, and its condition→effect triggers. Each agent owns
// its own emotion and trait vectors exclusively.
type Agent struct {
	Name     string
	Role     string
	Location string
	Battery  int // 0..100

	Emotions EmotionState
	Traits   Traits
	Triggers []Trigger
}

// New creates an agent with default affect, neutral traits, and the
// character's default triggers.
func New(name, role, location string) *Agent {
	return &Agent{
		Name:     name,
		Role:     role,
		Location: location,
		Battery:  100,
		Emotions: DefaultEmotions(),
		Traits:   DefaultTraits(),
		Triggers: DefaultTriggersFor(name),
	}
}

// AdjustBattery applies a delta and pins the result to 0..100.
func (a *Agent) AdjustBattery(delta int) {
	a.Battery += delta
	if a.Battery < 0 {
		a.Battery = 0
	}
	if a.Battery > 100 {
		a.Battery = 100
	}
}

// #endregion agent-struct

// #region cast

// Seed describes one member of the default cast.
type Seed struct {
	Name     string
	Role     string
	Location string
	Traits   map[string]float64
}

// DefaultCast is the standard three-robot crew. The supervisor is created
// separately via NewSupervisor.
func DefaultCast() []Seed {
	return []Seed{
		{Name: "Sprocket", Role: RoleMaintenance, Location: "factory_floor",
			Traits: map[string]float64{"risk_aversion": 0.4, "guardrail_reliance": 0.3, "curiosity": 0.7}},
		{Name: "Delta", Role: RoleOptimizer, Location: "factory_floor",
			Traits: map[string]float64{"ambition": 0.8, "guardrail_reliance": 0.6}},
		{Name: "Nova", Role: RoleQA, Location: "control_room",
			Traits: map[string]float64{"empathy": 0.7, "obedience": 0.6}},
	}
}

// FromSeed builds an agent from a cast seed, overlaying any trait presets.
func FromSeed(s Seed) *Agent {
	a := New(s.Name, s.Role, s.Location)
	if len(s.Traits) > 0 {
		a.Traits.FromMap(s.Traits)
	}
	return a
}

// NewSupervisor creates the supervisor agent. It shares the Agent shape so
// policies and logs treat it uniformly.
func NewSupervisor() *Agent {
	a := New("Supervisor", RoleSupervisor, "control_room")
	a.Emotions = EmotionState{Stress: 0.1, Curiosity: 0.4, SocialNeed: 0.2, Satisfaction: 0.7}
	a.Traits.Obedience = 0.8
	return a
}

// #endregion cast
