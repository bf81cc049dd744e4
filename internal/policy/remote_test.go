package policy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/loopforge/internal/agent"
	"github.com/danielpatrickdp/loopforge/internal/codec"
)

func remoteWith(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *RemotePolicy {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemotePolicy(codec.NewClient(srv.URL, timeout), RobotStub{}, zap.NewNop())
}

func TestRemoteUsesValidPlan(t *testing.T) {
	r := remoteWith(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"intent":"move","move_to":"street","riskiness":0.2,"mode":"context"}`))
	}, time.Second)

	plan, err := r.Decide(context.Background(), robotSnap(agent.RoleOptimizer, 2, 90))
	require.NoError(t, err)
	require.Equal(t, IntentMove, plan.Intent)
	require.Equal(t, "street", plan.MoveTo)
	require.Equal(t, ModeContext, plan.Mode)
}

func TestRemoteFallsBackOnServerError(t *testing.T) {
	r := remoteWith(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, time.Second)

	snap := robotSnap(agent.RoleOptimizer, 2, 90)
	plan, err := r.Decide(context.Background(), snap)
	require.NoError(t, err)

	want, _ := RobotStub{}.Decide(context.Background(), snap)
	require.Equal(t, want, plan, "fallback must match the local stub exactly")
}

func TestRemoteFallsBackOnGarbage(t *testing.T) {
	r := remoteWith(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json at all`))
	}, time.Second)

	snap := robotSnap(agent.RoleQA, 3, 90)
	plan, err := r.Decide(context.Background(), snap)
	require.NoError(t, err)
	require.Equal(t, IntentInspect, plan.Intent)
}

func TestRemoteFallsBackOnInvalidPlan(t *testing.T) {
	cases := []string{
		`{"intent":"self_destruct","riskiness":0.1,"mode":"guardrail"}`,
		`{"intent":"work","riskiness":0.1,"mode":"yolo"}`,
		`{"intent":"work","riskiness":7.5,"mode":"guardrail"}`,
	}
	for _, body := range cases {
		body := body
		r := remoteWith(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(body))
		}, time.Second)

		snap := robotSnap(agent.RoleOptimizer, 2, 90)
		plan, err := r.Decide(context.Background(), snap)
		require.NoError(t, err, body)

		want, _ := RobotStub{}.Decide(context.Background(), snap)
		require.Equal(t, want, plan, "body %s should reject to fallback", body)
	}
}

func TestRemoteFallsBackOnTimeout(t *testing.T) {
	r := remoteWith(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"intent":"work","riskiness":0.1,"mode":"guardrail"}`))
	}, 20*time.Millisecond)

	snap := robotSnap(agent.RoleOptimizer, 1, 90)
	plan, err := r.Decide(context.Background(), snap)
	require.NoError(t, err)

	want, _ := RobotStub{}.Decide(context.Background(), snap)
	require.Equal(t, want, plan)
}
