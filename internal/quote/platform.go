package quote

import "context"

// MessageSource looks up channels and messages.
type MessageSource interface {
	Channel(ctx context.Context, channelID string) (Channel, error)
	// RecentMessages returns up to limit messages, newest first.
	RecentMessages(ctx context.Context, channelID string, limit int) ([]Source, error)
	Message(ctx context.Context, channelID, messageID string) (Source, error)
}

// MemberDirectory resolves guild-scoped display names.
type MemberDirectory interface {
	MemberDisplayName(ctx context.Context, guildID, userID string) (string, error)
}

// RoleDirectory resolves guild roles.
type RoleDirectory interface {
	Role(ctx context.Context, guildID, roleID string) (Role, error)
}

// WebhookStore lists and creates channel webhooks.
type WebhookStore interface {
	Channel(ctx context.Context, channelID string) (Channel, error)
	Webhooks(ctx context.Context, channelID string) ([]Webhook, error)
	CreateWebhook(ctx context.Context, channelID, name string) (Webhook, error)
}

// Poster performs the irreversible side effects of a repost.
type Poster interface {
	CanDelete(ctx context.Context, msg Message, self Self) bool
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	ExecuteWebhook(ctx context.Context, endpoint Endpoint, post Post) error
}

// Platform is everything the quote service needs from the chat platform.
type Platform interface {
	MessageSource
	MemberDirectory
	RoleDirectory
	WebhookStore
	Poster
	Permissions(ctx context.Context, guildID, channelID, userID string) (Permissions, error)
	SendCards(ctx context.Context, channelID string, cards []Card) error
}

// Responder answers a command invocation. Defer acknowledges the invocation
// ahead of slow work; the later Reply then completes it.
type Responder interface {
	Defer(ctx context.Context) error
	Reply(ctx context.Context, reply Reply) error
}
