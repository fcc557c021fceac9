package telegram_test

import (
	"testing"

	"github.com/go-telegram/bot/models"

	"groupwarden/internal/moderation"
	"groupwarden/internal/telegram"
)

func TestExtractContentFlags(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		msg  models.Message
		want moderation.ContentFlags
	}{
		{
			name: "plain text",
			msg:  models.Message{Text: "hello there"},
			want: moderation.ContentFlags{},
		},
		{
			name: "photo",
			msg:  models.Message{Photo: []models.PhotoSize{{FileID: "abc"}}},
			want: moderation.ContentFlags{HasMedia: true},
		},
		{
			name: "video",
			msg:  models.Message{Video: &models.Video{FileID: "abc"}},
			want: moderation.ContentFlags{HasMedia: true},
		},
		{
			name: "document",
			msg:  models.Message{Document: &models.Document{FileID: "abc"}},
			want: moderation.ContentFlags{HasMedia: true},
		},
		{
			name: "sticker",
			msg:  models.Message{Sticker: &models.Sticker{FileID: "abc"}},
			want: moderation.ContentFlags{HasMedia: true},
		},
		{
			name: "animation",
			msg:  models.Message{Animation: &models.Animation{FileID: "abc"}},
			want: moderation.ContentFlags{HasMedia: true},
		},
		{
			name: "url entity",
			msg: models.Message{
				Text:     "see https://example.com",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeURL, Offset: 4, Length: 19}},
			},
			want: moderation.ContentFlags{HasLink: true},
		},
		{
			name: "text link entity",
			msg: models.Message{
				Text:     "click here",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeTextLink, URL: "https://example.com"}},
			},
			want: moderation.ContentFlags{HasLink: true},
		},
		{
			name: "link in caption",
			msg: models.Message{
				Caption:         "look: https://example.com",
				CaptionEntities: []models.MessageEntity{{Type: models.MessageEntityTypeURL, Offset: 6, Length: 19}},
			},
			want: moderation.ContentFlags{HasLink: true},
		},
		{
			name: "photo with link caption",
			msg: models.Message{
				Photo:           []models.PhotoSize{{FileID: "abc"}},
				Caption:         "https://example.com",
				CaptionEntities: []models.MessageEntity{{Type: models.MessageEntityTypeURL, Length: 19}},
			},
			want: moderation.ContentFlags{HasMedia: true, HasLink: true},
		},
		{
			name: "mention entity is not a link",
			msg: models.Message{
				Text:     "@someone hi",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeMention, Length: 8}},
			},
			want: moderation.ContentFlags{},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := telegram.ExtractContentFlags(&tc.msg); got != tc.want {
				t.Errorf("ExtractContentFlags = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestIsCommandMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		msg  models.Message
		want bool
	}{
		{
			name: "bot command entity at start",
			msg: models.Message{
				Text:     "/top",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: 4}},
			},
			want: true,
		},
		{
			name: "command mid-text",
			msg: models.Message{
				Text:     "try /top sometime",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBotCommand, Offset: 4, Length: 4}},
			},
			want: false,
		},
		{
			name: "leading slash without entity",
			msg:  models.Message{Text: "/unknown"},
			want: true,
		},
		{
			name: "plain text",
			msg:  models.Message{Text: "hello"},
			want: false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := telegram.IsCommandMessage(&tc.msg); got != tc.want {
				t.Errorf("IsCommandMessage(%q) = %v, want %v", tc.msg.Text, got, tc.want)
			}
		})
	}
}
