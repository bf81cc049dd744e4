package policy

import (
	"context"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/loopforge/internal/perception"
)

// #region interface

// Policy maps a shaped perception snapshot to an action plan. Decide must
// be deterministic for a fixed snapshot unless the implementation talks to
// an external service.
type Policy interface {
	Name() string
	Decide(ctx context.Context, snap perception.Snapshot) (ActionPlan, error)
}

// #endregion interface

// #region logged

// Logged wraps a policy so every decision lands in the diagnostic log with
// the fields needed to trace a run.
type Logged struct {
	inner Policy
	log   *zap.Logger
}

// NewLogged decorates p with decision logging.
func NewLogged(p Policy, log *zap.Logger) *Logged {
	return &Logged{inner: p, log: log}
}

func (l *Logged) Name() string { return l.inner.Name() }

func (l *Logged) Decide(ctx context.Context, snap perception.Snapshot) (ActionPlan, error) {
	plan, err := l.inner.Decide(ctx, snap)
	if err != nil {
		l.log.Warn("policy decide failed",
			zap.String("policy", l.inner.Name()),
			zap.String("agent", snap.Name),
			zap.Int("step", snap.Step),
			zap.Error(err))
		return plan, err
	}
	l.log.Debug("policy decision",
		zap.String("policy", l.inner.Name()),
		zap.String("agent", snap.Name),
		zap.Int("step", snap.Step),
		zap.String("intent", string(plan.Intent)),
		zap.String("mode", plan.Mode),
		zap.Float64("riskiness", plan.Riskiness))
	return plan, nil
}

// #endregion logged
