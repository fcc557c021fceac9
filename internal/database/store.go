package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations. Methods accept a
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveWeeklyWinners archives one chat's weekly report. Positions are
	// assigned from slice order (1-based).
	SaveWeeklyWinners(ctx context.Context, chatID int64, weekEnd time.Time, winners []WeeklyWinner) error

	// GetLatestWinners retrieves the most recently archived report for a
	// chat, ordered by position. Returns an empty slice if none exists.
	GetLatestWinners(ctx context.Context, chatID int64) ([]WeeklyWinner, error)

	// RecordModerationEvent appends one audit row.
	RecordModerationEvent(ctx context.Context, event *ModerationEvent) error

	// PruneModerationEvents deletes audit rows created before the cutoff
	// and returns how many were removed.
	PruneModerationEvents(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx. It requires a connected sqlx.DB
// instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveWeeklyWinners(ctx context.Context, chatID int64, weekEnd time.Time, winners []WeeklyWinner) error {
	if len(winners) == 0 {
		return fmt.Errorf("cannot archive an empty winners report")
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.logger.ErrorContext(ctx, "Failed to roll back winners transaction", "error", err)
		}
	}()

	const query = `
		INSERT INTO weekly_winners (chat_id, user_id, position, score, week_ending, created_at)
		VALUES (:chat_id, :user_id, :position, :score, :week_ending, :created_at)`

	for i, winner := range winners {
		winner.ChatID = chatID
		winner.Position = i + 1
		winner.WeekEnd = weekEnd
		winner.CreatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, winner); err != nil {
			return fmt.Errorf("failed to insert winner row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit winners: %w", err)
	}

	s.logger.InfoContext(ctx, "Archived weekly winners",
		"chat_id", chatID, "week_ending", weekEnd, "winners", len(winners))
	return nil
}

func (s *sqlxStore) GetLatestWinners(ctx context.Context, chatID int64) ([]WeeklyWinner, error) {
	const query = `
		SELECT id, chat_id, user_id, position, score, week_ending, created_at
		FROM weekly_winners
		WHERE chat_id = ?
		  AND week_ending = (
			SELECT MAX(week_ending) FROM weekly_winners WHERE chat_id = ?
		  )
		ORDER BY position ASC`

	winners := []WeeklyWinner{}
	if err := s.db.SelectContext(ctx, &winners, query, chatID, chatID); err != nil {
		return nil, fmt.Errorf("failed to query latest winners: %w", err)
	}
	return winners, nil
}

func (s *sqlxStore) RecordModerationEvent(ctx context.Context, event *ModerationEvent) error {
	if event == nil {
		return fmt.Errorf("cannot record nil moderation event")
	}
	if event.ChatID == 0 || event.UserID == 0 || event.Action == "" {
		return fmt.Errorf("moderation event must have chat_id, user_id and action")
	}
	event.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO moderation_events (chat_id, user_id, message_id, action, expires_at, created_at)
		VALUES (:chat_id, :user_id, :message_id, :action, :expires_at, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to insert moderation event: %w", err)
	}
	return nil
}

func (s *sqlxStore) PruneModerationEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM moderation_events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune moderation events: %w", err)
	}

	pruned, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return pruned, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}
