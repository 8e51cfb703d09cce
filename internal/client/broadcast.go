package client

import (
	"context"
	"sync"
)

// BroadcastResult is the outcome of one broadcast send.
type BroadcastResult struct {
	Target   Target
	Response string
	Err      error
}

// Broadcast sends message to every target concurrently and returns results
// in target order. Individual failures land in their result entry; one slow
// or dead agent never blocks the others beyond the send timeout.
func (c *Client) Broadcast(ctx context.Context, targets []Target, message string) []BroadcastResult {
	results := make([]BroadcastResult, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target Target) {
			defer wg.Done()
			response, err := c.Send(ctx, target, message)
			results[i] = BroadcastResult{Target: target, Response: response, Err: err}
		}(i, target)
	}
	wg.Wait()

	return results
}
