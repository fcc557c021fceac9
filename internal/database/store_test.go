package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"groupwarden/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestStoreWeeklyWinnersRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chatID := int64(-1001)
	firstWeek := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	secondWeek := firstWeek.AddDate(0, 0, 7)

	err := store.SaveWeeklyWinners(ctx, chatID, firstWeek, []database.WeeklyWinner{
		{UserID: 1, Score: 30},
		{UserID: 2, Score: 20},
	})
	if err != nil {
		t.Fatalf("SaveWeeklyWinners returned error: %v", err)
	}

	err = store.SaveWeeklyWinners(ctx, chatID, secondWeek, []database.WeeklyWinner{
		{UserID: 3, Score: 12},
	})
	if err != nil {
		t.Fatalf("SaveWeeklyWinners for second week returned error: %v", err)
	}

	winners, err := store.GetLatestWinners(ctx, chatID)
	if err != nil {
		t.Fatalf("GetLatestWinners returned error: %v", err)
	}
	if len(winners) != 1 {
		t.Fatalf("latest winners count = %d, want 1", len(winners))
	}
	if winners[0].UserID != 3 || winners[0].Score != 12 || winners[0].Position != 1 {
		t.Errorf("latest winner = %+v, want user 3, score 12, position 1", winners[0])
	}
}

func TestStoreLatestWinnersEmptyChat(t *testing.T) {
	store := newTestStore(t)

	winners, err := store.GetLatestWinners(context.Background(), -42)
	if err != nil {
		t.Fatalf("GetLatestWinners returned error: %v", err)
	}
	if len(winners) != 0 {
		t.Errorf("winners for unknown chat = %v, want empty", winners)
	}
}

func TestStoreRejectsEmptyReport(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveWeeklyWinners(context.Background(), -1, time.Now(), nil); err == nil {
		t.Error("SaveWeeklyWinners with no rows should fail")
	}
}

func TestStoreModerationEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := &database.ModerationEvent{
		ChatID:    -1001,
		UserID:    42,
		MessageID: 7,
		Action:    database.ActionMute,
	}
	if err := store.RecordModerationEvent(ctx, event); err != nil {
		t.Fatalf("RecordModerationEvent returned error: %v", err)
	}

	if err := store.RecordModerationEvent(ctx, &database.ModerationEvent{ChatID: -1}); err == nil {
		t.Error("RecordModerationEvent without user/action should fail")
	}

	pruned, err := store.PruneModerationEvents(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneModerationEvents returned error: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
}

func TestStoreMaintenance(t *testing.T) {
	store := newTestStore(t)

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Errorf("RunSQLMaintenance returned error: %v", err)
	}
}
