package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"groupwarden/internal/telegram"
)

// RegisterAllCommands returns all command handlers with their registration
// parameters.
func RegisterAllCommands(deps HandlerDeps) map[string]telegram.RegisteredHandler {
	adminOnly := ChatAdminOnly(deps)

	return map[string]telegram.RegisteredHandler{
		"top": {
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     "/top",
			MatchType:   tgbot.MatchTypePrefix,
			Handler:     NewTopHandler(deps),
		},
		"winners": {
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     "/winners",
			MatchType:   tgbot.MatchTypePrefix,
			Handler:     NewWinnersHandler(deps),
		},
		"id": {
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     "/id",
			MatchType:   tgbot.MatchTypePrefix,
			Handler:     NewIDHandler(deps),
		},
		"unmute": {
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     "/unmute",
			MatchType:   tgbot.MatchTypePrefix,
			Handler:     NewUnmuteHandler(deps),
			Middleware:  []tgbot.Middleware{adminOnly},
		},
	}
}
