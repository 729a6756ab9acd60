package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const keepaliveRequestTimeout = 30 * time.Second

// newKeepaliveTask creates the task that requests the bot's own public
// liveness URL so idle-suspending hosts keep the process awake.
func newKeepaliveTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", KeepaliveTaskName)
	url := deps.Config.Keepalive.URL
	client := deps.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, keepaliveRequestTimeout)
		defer cancel()

		startTime := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to build keepalive request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("keepalive request failed: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

		duration := time.Since(startTime)
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("keepalive got status %d", resp.StatusCode)
		}

		log.DebugContext(ctx, "Keepalive ping succeeded", "status", resp.StatusCode, "duration", duration)
		return nil
	}
}
