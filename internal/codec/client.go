package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danielpatrickdp/loopforge/internal/perception"
)

// #region types

// PlanPayload is the wire form of an action plan returned by an external
// policy service. It mirrors the plan schema field for field so the service
// can be swapped without touching the simulation core.
type PlanPayload struct {
	Intent    string   `json:"intent"`
	MoveTo    string   `json:"move_to,omitempty"`
	Targets   []string `json:"targets,omitempty"`
	Riskiness float64  `json:"riskiness"`
	Mode      string   `json:"mode"`
	Narrative string   `json:"narrative,omitempty"`
}

// #endregion types

// #region client-struct

// Client talks to an external decision service over HTTP. One POST per
// decision: the shaped perception snapshot goes out, a plan payload comes
// back.
type Client struct {
	baseURL string
	hc      *http.Client
}

// #endregion client-struct

// #region constructor

// NewClient builds a client for the given base URL. The timeout bounds the
// whole request; slow services degrade to the caller's fallback, they never
// stall a step.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

// #endregion constructor

// #region decide

// maxResponseBytes caps how much of a response body is read. A misbehaving
// service cannot balloon memory.
const maxResponseBytes = 1 << 20

// Decide posts the snapshot to the service's /decide endpoint and decodes
// the returned plan.
func (c *Client) Decide(ctx context.Context, snap perception.Snapshot) (PlanPayload, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return PlanPayload{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/decide", bytes.NewReader(body))
	if err != nil {
		return PlanPayload{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return PlanPayload{}, fmt.Errorf("decide request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PlanPayload{}, fmt.Errorf("decide request: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return PlanPayload{}, fmt.Errorf("read response: %w", err)
	}

	var p PlanPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return PlanPayload{}, fmt.Errorf("decode plan: %w", err)
	}
	return p, nil
}

// #endregion decide
