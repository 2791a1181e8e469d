package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Outcome is the terminal state of a repost.
type Outcome int

const (
	// OutcomeSent means the original was deleted and the replacement posted.
	OutcomeSent Outcome = iota
	// OutcomeNotDeletable means nothing happened because the original cannot be removed.
	OutcomeNotDeletable
	// OutcomeDeleteFailed means deletion failed and nothing was posted.
	OutcomeDeleteFailed
	// OutcomeUnsupported means the original was deleted but the channel has no webhook support.
	OutcomeUnsupported
	// OutcomeSendFailed means the original was deleted but the replacement could not be posted.
	OutcomeSendFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeNotDeletable:
		return "not_deletable"
	case OutcomeDeleteFailed:
		return "delete_failed"
	case OutcomeUnsupported:
		return "unsupported"
	case OutcomeSendFailed:
		return "send_failed"
	default:
		return "unknown"
	}
}

// Mimic replaces a requester's message with a webhook post under their name.
// The original is always deleted first; a failure after deletion is not compensated.
type Mimic struct {
	logger   *slog.Logger
	poster   Poster
	channels MessageSource
	webhooks *Webhooks
	builder  *Builder
}

// NewMimic creates a re-emission orchestrator.
func NewMimic(log *slog.Logger, poster Poster, channels MessageSource, webhooks *Webhooks, builder *Builder) *Mimic {
	if log == nil {
		log = slog.Default()
	}
	return &Mimic{
		logger:   log.With(slog.String("component", "mimic")),
		poster:   poster,
		channels: channels,
		webhooks: webhooks,
		builder:  builder,
	}
}

// Repost deletes original and posts content plus cards through the channel's webhook.
func (m *Mimic) Repost(ctx context.Context, original Message, content string, cards []Card, self Self) (Outcome, error) {
	if !m.poster.CanDelete(ctx, original, self) {
		return OutcomeNotDeletable, nil
	}
	if err := m.poster.DeleteMessage(ctx, original.ChannelID, original.ID); err != nil {
		return OutcomeDeleteFailed, fmt.Errorf("%w: delete message %s: %v", ErrRemoteCall, original.ID, err)
	}

	ch, err := m.channels.Channel(ctx, original.ChannelID)
	if err != nil {
		return OutcomeSendFailed, fmt.Errorf("%w: fetch channel %s: %v", ErrRemoteCall, original.ChannelID, err)
	}
	endpoint, err := m.webhooks.Acquire(ctx, ch, self)
	if errors.Is(err, ErrUnsupportedChannel) {
		m.logger.Debug("channel has no webhook support, original already deleted",
			slog.String("channel_id", ch.ID),
			slog.String("kind", ch.Kind.String()),
		)
		return OutcomeUnsupported, nil
	}
	if err != nil {
		return OutcomeSendFailed, err
	}

	post := Post{
		Content:   content,
		Username:  m.builder.DisplayName(ctx, original.GuildID, original.Author),
		AvatarURL: original.Author.AvatarURL,
		Cards:     cards,
	}
	if err := m.poster.ExecuteWebhook(ctx, endpoint, post); err != nil {
		return OutcomeSendFailed, fmt.Errorf("%w: execute webhook %s: %v", ErrRemoteCall, endpoint.Webhook.ID, err)
	}
	return OutcomeSent, nil
}
