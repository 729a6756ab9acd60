package tasks

import (
	"context"
)

// ScheduledTaskFunc defines the signature for all scheduled tasks. The context
// is cancelled when the scheduler shuts down.
type ScheduledTaskFunc func(ctx context.Context) error

// KeepaliveTaskName identifies the self-ping task.
const KeepaliveTaskName = "keepalive"

// RegisterAllTasks returns the tasks enabled by the configuration, keyed by
// name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	if deps.Config != nil && deps.Config.Keepalive.Enabled {
		tasks[KeepaliveTaskName] = newKeepaliveTask(deps)
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
