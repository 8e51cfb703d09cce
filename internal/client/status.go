package client

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/norasys/nora/internal/a2a"
)

// State is the probed availability of a target.
type State int

const (
	// StateOnline means the probe returned 200.
	StateOnline State = iota
	// StateDegraded means the probe returned a non-200 status.
	StateDegraded
	// StateOffline means the probe did not get an HTTP response at all.
	StateOffline
)

func (s State) String() string {
	switch s {
	case StateOnline:
		return "online"
	case StateDegraded:
		return "degraded"
	default:
		return "offline"
	}
}

// Status is the probe outcome for one target.
type Status struct {
	Target Target
	State  State
	// HTTPStatus is set when State is StateDegraded.
	HTTPStatus int
}

// probePath picks the route that answers cheaply for each service kind.
func probePath(target Target) string {
	if target.Kind == KindSupervisor {
		return "/docs"
	}
	return a2a.HealthPath
}

// CheckStatus probes one target.
func (c *Client) CheckStatus(ctx context.Context, target Target) Status {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	endpoint := strings.TrimRight(target.URL, "/") + probePath(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Status{Target: target, State: StateOffline}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Status{Target: target, State: StateOffline}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusOK {
		return Status{Target: target, State: StateOnline}
	}
	return Status{Target: target, State: StateDegraded, HTTPStatus: resp.StatusCode}
}

// CheckAll probes every target and returns statuses in target order.
func (c *Client) CheckAll(ctx context.Context, targets []Target) []Status {
	statuses := make([]Status, len(targets))
	for i, target := range targets {
		statuses[i] = c.CheckStatus(ctx, target)
	}
	return statuses
}
