package errors

import "errors"

var (
	ErrMissingTelegramToken  = errors.New("telegram_bot_token is required")
	ErrMissingDiscordToken   = errors.New("discord_token is required")
	ErrMissingDiscordChannel = errors.New("discord_channel_id is required")
)
