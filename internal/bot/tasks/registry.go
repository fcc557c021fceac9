package tasks

import "groupwarden/internal/moderation"

// RegisterAllTasks returns the map of task names to their implementations.
// Names here must match the keys under scheduler.tasks in the config.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	if deps.Clock == nil {
		deps.Clock = moderation.SystemClock()
	}
	return map[string]ScheduledTaskFunc{
		"weekly_awards":   NewWeeklyAwardsTask(deps),
		"sql_maintenance": NewSQLMaintenanceTask(deps),
	}
}
