package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"groupwarden/internal/database"
)

// medals decorate the top positions of the weekly report; positions past the
// podium get the generic award medal.
var medals = []string{"🥇", "🥈", "🥉", "🎖️", "🎖️"}

// NewWeeklyAwardsTask returns the weekly rollover job. For every chat with
// recorded activity it atomically takes the leaderboard, resets the counts,
// announces and pins the winners, and archives the report.
func NewWeeklyAwardsTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "weekly_awards")

	return func(ctx context.Context) error {
		weekEnd := deps.Clock.Now()
		chats := deps.Engine.ActiveChats()
		if len(chats) == 0 {
			log.InfoContext(ctx, "No active chats, nothing to roll over")
			return nil
		}

		var failed int
		for _, chatID := range chats {
			if err := rolloverChat(ctx, deps, chatID, weekEnd); err != nil {
				log.ErrorContext(ctx, "Weekly rollover failed for chat",
					"chat_id", chatID, "error", err)
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("weekly rollover failed for %d of %d chats", failed, len(chats))
		}
		log.InfoContext(ctx, "Weekly rollover completed", "chats", len(chats))
		return nil
	}
}

func rolloverChat(ctx context.Context, deps TaskDeps, chatID int64, weekEnd time.Time) error {
	winners := deps.Engine.TakeWinners(chatID)
	if len(winners) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(deps.Config.Messages.WinnersHeader)
	archive := make([]database.WeeklyWinner, 0, len(winners))
	for i, entry := range winners {
		medal := medals[len(medals)-1]
		if i < len(medals) {
			medal = medals[i]
		}
		name := deps.Gateway.MemberName(ctx, chatID, entry.UserID)
		fmt.Fprintf(&sb, "%s %s — %d\n", medal, name, entry.Score)

		archive = append(archive, database.WeeklyWinner{
			UserID: entry.UserID,
			Score:  entry.Score,
		})
	}

	messageID, err := deps.Gateway.Announce(ctx, chatID, sb.String())
	if err != nil {
		return fmt.Errorf("failed to announce winners: %w", err)
	}
	if err := deps.Gateway.Pin(ctx, chatID, messageID); err != nil {
		deps.Logger.WarnContext(ctx, "Failed to pin winners announcement",
			"chat_id", chatID, "message_id", messageID, "error", err)
	}

	if err := deps.Store.SaveWeeklyWinners(ctx, chatID, weekEnd, archive); err != nil {
		return fmt.Errorf("failed to archive winners: %w", err)
	}
	return nil
}
