package quote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// DefaultWebhookName names webhooks created for impersonated posts.
const DefaultWebhookName = "quote"

// Webhooks acquires the per-channel impersonation endpoint owned by self.
//
// Acquisition is get-or-create without mutual exclusion: two concurrent
// acquisitions for a cold channel may both create a webhook. The mutex only
// guards the memo map.
type Webhooks struct {
	logger *slog.Logger
	store  WebhookStore
	name   string

	mu   sync.Mutex
	memo map[string]Webhook // keyed by channel id
}

// NewWebhooks creates a webhook manager. An empty name falls back to DefaultWebhookName.
func NewWebhooks(log *slog.Logger, store WebhookStore, name string) *Webhooks {
	if log == nil {
		log = slog.Default()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultWebhookName
	}
	return &Webhooks{
		logger: log.With(slog.String("component", "webhooks")),
		store:  store,
		name:   name,
		memo:   make(map[string]Webhook),
	}
}

// Acquire returns the endpoint to post into ch. Threads post through the
// parent's webhook and carry the thread id.
func (w *Webhooks) Acquire(ctx context.Context, ch Channel, self Self) (Endpoint, error) {
	if !self.Valid() {
		return Endpoint{}, ErrMisconfigured
	}
	switch ch.Kind {
	case KindPublicThread:
		parent, err := w.store.Channel(ctx, ch.ParentID)
		if err != nil {
			return Endpoint{}, fmt.Errorf("%w: fetch thread parent %s: %v", ErrRemoteCall, ch.ParentID, err)
		}
		if !parent.Kind.HostsWebhooks() {
			return Endpoint{}, fmt.Errorf("%w: thread parent is %s", ErrUnsupportedChannel, parent.Kind)
		}
		hook, err := w.lookup(ctx, parent.ID, self.ID)
		if err != nil {
			return Endpoint{}, err
		}
		return Endpoint{Webhook: hook, ThreadID: ch.ID}, nil
	case KindStandardText, KindAnnouncement:
		hook, err := w.lookup(ctx, ch.ID, self.ID)
		if err != nil {
			return Endpoint{}, err
		}
		return Endpoint{Webhook: hook}, nil
	case KindOther:
		return Endpoint{}, fmt.Errorf("%w: %s channel %s", ErrUnsupportedChannel, ch.Kind, ch.ID)
	default:
		return Endpoint{}, fmt.Errorf("%w: unknown channel kind %d", ErrUnsupportedChannel, ch.Kind)
	}
}

// Forget drops the memoized webhook of a channel.
func (w *Webhooks) Forget(channelID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.memo, channelID)
}

func (w *Webhooks) lookup(ctx context.Context, channelID, selfID string) (Webhook, error) {
	w.mu.Lock()
	hook, ok := w.memo[channelID]
	w.mu.Unlock()
	if ok {
		return hook, nil
	}

	hook, err := w.getOrCreate(ctx, channelID, selfID)
	if err != nil {
		return Webhook{}, err
	}
	w.mu.Lock()
	w.memo[channelID] = hook
	w.mu.Unlock()
	return hook, nil
}

func (w *Webhooks) getOrCreate(ctx context.Context, channelID, selfID string) (Webhook, error) {
	hooks, err := w.store.Webhooks(ctx, channelID)
	if err != nil {
		return Webhook{}, fmt.Errorf("%w: list webhooks in %s: %v", ErrRemoteCall, channelID, err)
	}
	for _, hook := range hooks {
		if hook.OwnerID == selfID {
			return hook, nil
		}
	}
	hook, err := w.store.CreateWebhook(ctx, channelID, w.name)
	if err != nil {
		return Webhook{}, fmt.Errorf("%w: create webhook in %s: %v", ErrRemoteCall, channelID, err)
	}
	w.logger.Info("webhook created", slog.String("channel_id", channelID), slog.String("webhook_id", hook.ID))
	return hook, nil
}
