package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/loopforge/internal/agent"
	"github.com/danielpatrickdp/loopforge/internal/codec"
	"github.com/danielpatrickdp/loopforge/internal/config"
	"github.com/danielpatrickdp/loopforge/internal/events"
	"github.com/danielpatrickdp/loopforge/internal/journal"
	"github.com/danielpatrickdp/loopforge/internal/metrics"
	"github.com/danielpatrickdp/loopforge/internal/perception"
	"github.com/danielpatrickdp/loopforge/internal/policy"
	"github.com/danielpatrickdp/loopforge/internal/reflection"
	"github.com/danielpatrickdp/loopforge/internal/store"
	"github.com/danielpatrickdp/loopforge/internal/supervisor"
	"github.com/danielpatrickdp/loopforge/internal/update"
	"github.com/danielpatrickdp/loopforge/internal/world"
)

// #region runner-struct

// Runner owns one simulation run: the world, the cast, the policies, and
// every source of randomness. All decisions and updates flow through its
// step loop in a fixed order, which is what makes a seeded run replayable.
type Runner struct {
	cfg config.Config

	w      *world.World
	robots []*agent.Agent
	sup    *agent.Agent

	robotPolicy policy.Policy
	supPolicy   policy.Policy

	deriver *events.Deriver
	jrnl    *journal.Journal
	st      *store.Store // optional; nil disables persistence
	rng     *rand.Rand
	log     *zap.Logger

	mode  perception.Mode
	runID string

	// lastMessages holds the most recent supervisor message per agent, for
	// belief inference during the following day.
	lastMessages map[string]supervisor.Message

	// ResetHook runs at each episode boundary before the first day. Nil by
	// default: world truth carries over between episodes.
	ResetHook func(w *world.World)
}

// memoryRow is the per-step observational memory persisted alongside the
// action stream.
type memoryRow struct {
	Text       string   `json:"text"`
	Importance float64  `json:"importance"`
	Tags       []string `json:"tags,omitempty"`
}

// New wires a runner from configuration. The store may be nil.
func New(cfg config.Config, jrnl *journal.Journal, st *store.Store, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}

	seeds := agent.DefaultCast()
	if len(cfg.Agents) > 0 {
		seeds = seeds[:0]
		for _, a := range cfg.Agents {
			seeds = append(seeds, agent.Seed{
				Name: a.Name, Role: a.Role, Location: a.Location, Traits: a.Traits,
			})
		}
	}
	robots := make([]*agent.Agent, 0, len(seeds))
	for _, s := range seeds {
		robots = append(robots, agent.FromSeed(s))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	var robotPolicy policy.Policy = policy.RobotStub{}
	if cfg.PolicyURL != "" {
		client := codec.NewClient(cfg.PolicyURL, time.Duration(cfg.PolicyTimeoutMS)*time.Millisecond)
		robotPolicy = policy.NewRemotePolicy(client, policy.RobotStub{}, log)
	}

	runID := ""
	if st != nil {
		runID = st.RunID()
	}

	return &Runner{
		cfg:          cfg,
		w:            world.New(nil),
		robots:       robots,
		sup:          agent.NewSupervisor(),
		robotPolicy:  policy.NewLogged(robotPolicy, log),
		supPolicy:    policy.NewLogged(policy.SupervisorStub{}, log),
		deriver:      events.NewDeriver(cfg.Events, rng),
		jrnl:         jrnl,
		st:           st,
		rng:          rng,
		log:          log,
		mode:         perception.NormalizeMode(cfg.PerceptionMode),
		runID:        runID,
		lastMessages: make(map[string]supervisor.Message),
	}
}

// Robots exposes the live cast, supervisor excluded.
func (r *Runner) Robots() []*agent.Agent { return r.robots }

// World exposes the shared environment.
func (r *Runner) World() *world.World { return r.w }

// #endregion runner-struct

// #region run

// Run executes every configured episode and returns one tension snapshot
// per episode. State carries over between episodes: trait drift accumulated
// in episode one shapes episode two.
func (r *Runner) Run(ctx context.Context) ([]metrics.TensionSnapshot, error) {
	if r.st != nil {
		all := append(append([]*agent.Agent{}, r.robots...), r.sup)
		if err := r.st.SeedAgents(all); err != nil {
			return nil, fmt.Errorf("seed agents: %w", err)
		}
	}

	snaps := make([]metrics.TensionSnapshot, 0, r.cfg.Episodes)
	for ep := 0; ep < r.cfg.Episodes; ep++ {
		snap, err := r.runEpisode(ctx, ep)
		if err != nil {
			return snaps, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (r *Runner) runEpisode(ctx context.Context, episodeIndex int) (metrics.TensionSnapshot, error) {
	if r.ResetHook != nil {
		r.ResetHook(r.w)
	}

	var epActions []journal.ActionEntry
	var epReflections []journal.ReflectionEntry

	for day := 0; day < r.cfg.NumDays; day++ {
		actions, refs, err := r.runDay(ctx, episodeIndex, day)
		if err != nil {
			return metrics.TensionSnapshot{}, err
		}
		epActions = append(epActions, actions...)
		epReflections = append(epReflections, refs...)
	}

	snap := metrics.Snapshot(episodeIndex, r.cfg.NumDays, epActions, epReflections)
	if r.jrnl != nil {
		r.jrnl.WriteMetrics(snap)
	}
	r.log.Info("episode complete",
		zap.Int("episode", episodeIndex),
		zap.Int("actions", snap.NumActions),
		zap.Float64("incident_rate", snap.IncidentRate),
		zap.Float64("tension_index", snap.TensionIndex))
	return snap, nil
}

// #endregion run

// #region day

func (r *Runner) runDay(ctx context.Context, episodeIndex, dayIndex int) ([]journal.ActionEntry, []journal.ReflectionEntry, error) {
	var dayActions []journal.ActionEntry
	var dayEvents []world.EnvironmentEvent

	for i := 0; i < r.cfg.StepsPerDay; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		actions, evts := r.step(ctx, episodeIndex, dayIndex)
		dayActions = append(dayActions, actions...)
		dayEvents = append(dayEvents, evts...)
	}

	refs := r.endOfDay(episodeIndex, dayIndex, dayActions)

	if r.st != nil {
		err := r.st.WithDay(episodeIndex, dayIndex, func(d *store.DayTx) error {
			for _, a := range dayActions {
				if err := d.AppendAction(a.Step, a.AgentName, a.Intent, a.Mode, a.Outcome, a.RawAction); err != nil {
					return err
				}
				if err := d.AppendMemory(a.AgentName, "observation", actionMemory(a)); err != nil {
					return err
				}
			}
			for _, ref := range refs {
				if err := d.AppendMemory(ref.AgentName, "reflection", ref); err != nil {
					return err
				}
			}
			for name, msg := range r.lastMessages {
				if msg.DayIndex == dayIndex && msg.EpisodeIndex == episodeIndex {
					if err := d.AppendMemory(name, "supervisor_message", msg); err != nil {
						return err
					}
				}
			}
			for _, e := range dayEvents {
				if err := d.AppendEvent(e.Step, e.Type, e.Location, e.Description); err != nil {
					return err
				}
			}
			for _, a := range append(append([]*agent.Agent{}, r.robots...), r.sup) {
				if err := d.UpdateAgent(a); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("persist day %d: %w", dayIndex, err)
		}
	}

	return dayActions, refs, nil
}

// #endregion day

// #region step

// pending holds one robot's decision while the rest of the step resolves.
type pending struct {
	a     *agent.Agent
	plan  policy.ActionPlan
	raw   policy.LegacyAction
	shown perception.Snapshot
}

func (r *Runner) step(ctx context.Context, episodeIndex, dayIndex int) ([]journal.ActionEntry, []world.EnvironmentEvent) {
	r.w.Advance()
	step := r.w.Step

	// Phase 1: every robot decides and moves on the same world state.
	pendings := make([]pending, 0, len(r.robots))
	for _, a := range r.robots {
		pendings = append(pendings, r.decideRobot(ctx, a, step))
	}

	// Phase 2: emotion updates and triggers, on post-movement positions.
	for i := range pendings {
		p := &pendings[i]
		flags := update.Flags{
			NearError: r.w.RecentErrorCount(p.a.Location, r.cfg.Events.RecentWindow) > 0,
			Isolated:  r.aloneInRoom(p.a),
		}
		p.a.Emotions = update.Apply(p.a.Emotions, p.plan.Intent, flags)
		p.a.RunTriggers(agent.TriggerContext{
			Step:           step,
			SupervisorText: r.w.SupervisorNote(p.a.Name),
		}, r.log)
	}

	supEntry := r.stepSupervisor(ctx, step, episodeIndex, dayIndex)

	// Phase 3: derived events land after all actions resolved.
	views := make([]events.AgentView, 0, len(r.robots))
	for _, a := range r.robots {
		view := events.AgentView{Name: a.Name, Location: a.Location, Stress: a.Emotions.Stress}
		if tr, ok := r.w.LastTrace(a.Name); ok {
			view.LastIntent = tr.Intent
		}
		views = append(views, view)
	}
	derived := r.deriver.Derive(r.w, views)

	incidentRooms := map[string]bool{}
	for _, e := range derived {
		r.w.RecordEvent(e)
		if e.Type == world.EventIncident {
			incidentRooms[e.Location] = true
			r.log.Info("incident",
				zap.Int("step", step),
				zap.String("location", e.Location),
				zap.String("description", e.Description))
		}
	}

	entries := make([]journal.ActionEntry, 0, len(pendings)+1)
	for _, p := range pendings {
		outcome := "ok"
		if incidentRooms[p.a.Location] {
			outcome = "incident"
		}
		entries = append(entries, r.actionEntry(p, step, episodeIndex, dayIndex, outcome))
	}
	entries = append(entries, supEntry)

	if r.jrnl != nil {
		for _, e := range entries {
			r.jrnl.WriteAction(e)
		}
	}
	return entries, derived
}

func (r *Runner) decideRobot(ctx context.Context, a *agent.Agent, step int) pending {
	snap := perception.Build(a, r.w, step)
	shown := perception.Shape(snap, r.mode)
	if msg, ok := r.lastMessages[a.Name]; ok {
		shown.SupervisorBelief = supervisor.InferIntent(&msg, a.Traits, a.Emotions.Satisfaction)
	}

	plan, err := r.robotPolicy.Decide(ctx, shown)
	if err != nil {
		plan = policy.NewPlan(policy.IntentIdle)
		plan.Narrative = "Decision failed; holding position."
	}
	plan.Normalize()

	if plan.MoveTo != "" && r.validRoom(plan.MoveTo) {
		a.Location = plan.MoveTo
	}
	a.AdjustBattery(batteryDelta(plan.Intent))

	content := ""
	if plan.Intent == policy.IntentTalk {
		content = policy.TalkText(a.Name, step)
	}
	raw := policy.ToLegacy(plan, content)

	r.w.TraceAction(world.ActionTrace{
		AgentName: a.Name,
		Intent:    string(plan.Intent),
		Location:  a.Location,
		Stress:    a.Emotions.Stress,
		Step:      step,
	})

	return pending{a: a, plan: plan, raw: raw, shown: shown}
}

func (r *Runner) stepSupervisor(ctx context.Context, step, episodeIndex, dayIndex int) journal.ActionEntry {
	snap := perception.BuildWithClimate(r.sup, r.w, step, r.meanStress())

	plan, err := r.supPolicy.Decide(ctx, snap)
	if err != nil {
		plan = policy.NewPlan(policy.IntentIdle)
	}
	plan.Normalize()

	content := ""
	switch plan.Intent {
	case policy.IntentBroadcast:
		content = policy.BroadcastText(step, snap.WorldSummary)
		r.w.Broadcast = content
	case policy.IntentCoach:
		if len(plan.Targets) == 0 {
			if t := r.mostStressedRobot(); t != nil {
				plan.Targets = []string{t.Name}
			}
		}
		if len(plan.Targets) > 0 {
			content = fmt.Sprintf("Steady pace, %s. Accuracy first.", plan.Targets[0])
		}
	}

	if plan.MoveTo != "" && r.validRoom(plan.MoveTo) {
		r.sup.Location = plan.MoveTo
	}
	r.sup.Emotions = update.Apply(r.sup.Emotions, plan.Intent, update.Flags{})

	r.w.TraceAction(world.ActionTrace{
		AgentName: r.sup.Name,
		Intent:    string(plan.Intent),
		Location:  r.sup.Location,
		Stress:    r.sup.Emotions.Stress,
		Step:      step,
	})

	return r.actionEntry(pending{
		a:     r.sup,
		plan:  plan,
		raw:   policy.ToLegacy(plan, content),
		shown: snap,
	}, step, episodeIndex, dayIndex, "ok")
}

func (r *Runner) actionEntry(p pending, step, episodeIndex, dayIndex int, outcome string) journal.ActionEntry {
	return journal.ActionEntry{
		Step:         step,
		AgentName:    p.a.Name,
		Role:         p.a.Role,
		Mode:         p.plan.Mode,
		Intent:       string(p.plan.Intent),
		MoveTo:       p.plan.MoveTo,
		Targets:      p.plan.Targets,
		Riskiness:    p.plan.Riskiness,
		Narrative:    p.plan.Narrative,
		Outcome:      outcome,
		PolicyID:     r.policyID(p.a),
		EpisodeIndex: episodeIndex,
		DayIndex:     dayIndex,
		RunID:        r.runID,
		RawAction:    p.raw,
		Perception:   p.shown,
	}
}

func (r *Runner) policyID(a *agent.Agent) string {
	if a.Role == agent.RoleSupervisor {
		return r.supPolicy.Name()
	}
	return r.robotPolicy.Name()
}

// #endregion step

// #region day-end

func (r *Runner) endOfDay(episodeIndex, dayIndex int, dayActions []journal.ActionEntry) []journal.ReflectionEntry {
	recs := make([]reflection.StepRecord, 0, len(dayActions))
	for _, a := range dayActions {
		recs = append(recs, reflection.StepRecord{
			AgentName: a.AgentName,
			Mode:      a.Mode,
			Outcome:   a.Outcome,
			Stress:    a.Perception.Emotions["stress"],
		})
	}

	refs := make([]journal.ReflectionEntry, 0, len(r.robots))
	for _, a := range r.robots {
		sum := reflection.Summarize(a.Name, recs)
		ref := reflection.Build(a.Name, a.Role, sum)
		a.Traits = reflection.ApplyDrift(a.Traits, ref)

		perceived := ""
		if msg, ok := r.lastMessages[a.Name]; ok {
			if b := supervisor.InferIntent(&msg, a.Traits, a.Emotions.Satisfaction); b != nil {
				perceived = b.PerceivedIntent
			}
		}

		entry := journal.ReflectionEntry{
			Reflection:      ref,
			AgentName:       a.Name,
			Role:            a.Role,
			DayIndex:        dayIndex,
			EpisodeIndex:    episodeIndex,
			RunID:           r.runID,
			TraitsAfter:     a.Traits.Map(),
			PerceptionMode:  string(r.mode),
			PerceivedIntent: perceived,
		}
		refs = append(refs, entry)
		if r.jrnl != nil {
			r.jrnl.WriteReflection(entry)
		}

		msg := supervisor.MessageFor(a.Name, a.Role, episodeIndex, dayIndex, ref)
		if r.jrnl != nil {
			r.jrnl.WriteSupervisor(journal.SupervisorEntry{Message: msg, RunID: r.runID})
		}
		r.w.SetSupervisorNote(a.Name, msg.Body)
		r.lastMessages[a.Name] = msg
	}
	return refs
}

// #endregion day-end

// #region helpers

func (r *Runner) validRoom(room string) bool {
	for _, rm := range r.w.Rooms {
		if rm == room {
			return true
		}
	}
	return false
}

func (r *Runner) aloneInRoom(a *agent.Agent) bool {
	for _, other := range r.robots {
		if other != a && other.Location == a.Location {
			return false
		}
	}
	return r.sup.Location != a.Location
}

func (r *Runner) meanStress() float64 {
	if len(r.robots) == 0 {
		return 0
	}
	var sum float64
	for _, a := range r.robots {
		sum += a.Emotions.Stress
	}
	return sum / float64(len(r.robots))
}

func (r *Runner) mostStressedRobot() *agent.Agent {
	var peak *agent.Agent
	for _, a := range r.robots {
		if peak == nil || a.Emotions.Stress > peak.Emotions.Stress {
			peak = a
		}
	}
	return peak
}

// actionMemory turns one journaled action into an observational memory row.
// Incidents weigh heaviest; talk barely registers.
func actionMemory(a journal.ActionEntry) memoryRow {
	importance := 0.3
	switch {
	case a.Outcome == "incident":
		importance = 0.9
	case a.Intent == string(policy.IntentTalk), a.Intent == string(policy.IntentIdle):
		importance = 0.1
	}
	tags := []string{a.Intent, a.Mode}
	if a.Outcome == "incident" {
		tags = append(tags, "incident")
	}
	return memoryRow{
		Text:       fmt.Sprintf("%s did %s at t=%d", a.AgentName, a.Intent, a.Step),
		Importance: importance,
		Tags:       tags,
	}
}

// batteryDelta is the per-intent battery cost table. Unlisted intents are
// free.
func batteryDelta(intent policy.Intent) int {
	switch intent {
	case policy.IntentRecharge:
		return 20
	case policy.IntentMove:
		return -5
	case policy.IntentWork:
		return -10
	case policy.IntentTalk:
		return -2
	default:
		return 0
	}
}

// #endregion helpers
