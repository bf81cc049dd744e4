package policy

import (
	"context"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/loopforge/internal/codec"
	"github.com/danielpatrickdp/loopforge/internal/perception"
)

// #region remote

// RemotePolicy consults an external decision service and falls back to a
// local policy whenever the service errors, times out, or returns a plan
// that fails validation. Fallback is silent to the caller: Decide only
// returns an error when the fallback itself fails.
type RemotePolicy struct {
	client   *codec.Client
	fallback Policy
	log      *zap.Logger
}

// NewRemotePolicy wires a service client to a local fallback.
func NewRemotePolicy(client *codec.Client, fallback Policy, log *zap.Logger) *RemotePolicy {
	return &RemotePolicy{client: client, fallback: fallback, log: log}
}

func (r *RemotePolicy) Name() string { return "remote+" + r.fallback.Name() }

func (r *RemotePolicy) Decide(ctx context.Context, snap perception.Snapshot) (ActionPlan, error) {
	payload, err := r.client.Decide(ctx, snap)
	if err != nil {
		r.log.Warn("remote policy unavailable, using fallback",
			zap.String("agent", snap.Name),
			zap.Int("step", snap.Step),
			zap.Error(err))
		return r.fallback.Decide(ctx, snap)
	}

	plan := ActionPlan{
		Intent:        Intent(payload.Intent),
		MoveTo:        payload.MoveTo,
		Targets:       payload.Targets,
		Riskiness:     payload.Riskiness,
		Mode:          payload.Mode,
		Narrative:     payload.Narrative,
		SchemaVersion: PlanSchemaVersion,
	}
	if reason := validatePlan(plan); reason != "" {
		r.log.Warn("remote plan rejected, using fallback",
			zap.String("agent", snap.Name),
			zap.Int("step", snap.Step),
			zap.String("reason", reason))
		return r.fallback.Decide(ctx, snap)
	}
	return plan, nil
}

// validatePlan checks structure only. Behavior quality is the service's
// problem; malformed shape is ours.
func validatePlan(p ActionPlan) string {
	if !ValidIntent(string(p.Intent)) {
		return "unknown intent " + string(p.Intent)
	}
	if !ValidMode(p.Mode) {
		return "unknown mode " + p.Mode
	}
	if p.Riskiness < 0 || p.Riskiness > 1 {
		return "riskiness out of range"
	}
	return ""
}

// #endregion remote
