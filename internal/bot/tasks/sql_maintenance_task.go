package tasks

import (
	"context"
	"fmt"
)

// NewSQLMaintenanceTask returns the database maintenance job: it prunes
// expired moderation audit rows and vacuums the database file.
func NewSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		cutoff := deps.Clock.Now().Add(-deps.Config.Database.AuditRetention)
		pruned, err := deps.Store.PruneModerationEvents(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to prune audit rows: %w", err)
		}
		log.InfoContext(ctx, "Pruned moderation audit rows",
			"pruned", pruned, "cutoff", cutoff)

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			return fmt.Errorf("failed to run database maintenance: %w", err)
		}
		return nil
	}
}
