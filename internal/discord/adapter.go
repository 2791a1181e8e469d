package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/memohai/quote/internal/quote"
)

const (
	inboundDedupTTL = time.Minute
	listeningStatus = "/help"
)

// Handler consumes normalized inbound events.
type Handler interface {
	HandleMessage(ctx context.Context, self quote.Self, msg quote.Message) error
	HandleCommand(ctx context.Context, self quote.Self, cmd quote.Command, reply quote.Responder) error
}

// WebhookInvalidator drops cached webhooks for a channel.
type WebhookInvalidator interface {
	Forget(channelID string)
}

type gatewaySession interface {
	interactionSession
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	UpdateListeningStatus(name string) error
}

// Status is a snapshot of the gateway connection.
type Status struct {
	Connected bool
	SelfID    string
	Username  string
	UpdatedAt time.Time
	LastError string
}

// Adapter bridges gateway events to a Handler. Every inbound event runs on
// its own goroutine. Stop refuses new events and waits for in-flight ones,
// which keep running so a repost never stops between delete and resend.
type Adapter struct {
	logger   *slog.Logger
	session  gatewaySession
	handler  Handler
	webhooks WebhookInvalidator

	mu           sync.RWMutex
	self         quote.Self
	status       Status
	seenMessages map[string]time.Time
	removers     []func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAdapter(log *slog.Logger, session *discordgo.Session, handler Handler, webhooks WebhookInvalidator) *Adapter {
	return newAdapter(log, session, handler, webhooks)
}

func newAdapter(log *slog.Logger, session gatewaySession, handler Handler, webhooks WebhookInvalidator) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Adapter{
		logger:       log.With(slog.String("adapter", "discord")),
		session:      session,
		handler:      handler,
		webhooks:     webhooks,
		seenMessages: make(map[string]time.Time),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start registers event handlers and opens the gateway connection.
func (a *Adapter) Start(ctx context.Context) error {
	a.logger.Info("start")
	a.mu.Lock()
	a.removers = append(a.removers,
		a.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) { a.onReady(r) }),
		a.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) { a.onMessageCreate(m) }),
		a.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) { a.onInteractionCreate(i) }),
		a.session.AddHandler(func(_ *discordgo.Session, w *discordgo.WebhooksUpdate) { a.forgetWebhook(w.ChannelID) }),
		a.session.AddHandler(func(_ *discordgo.Session, c *discordgo.ChannelDelete) {
			if c.Channel != nil {
				a.forgetWebhook(c.ID)
			}
		}),
		a.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) { a.setConnected(false, "disconnected") }),
		a.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) { a.setConnected(true, "") }),
	)
	a.mu.Unlock()

	if err := a.session.Open(); err != nil {
		a.setConnected(false, err.Error())
		return fmt.Errorf("discord open connection: %w", err)
	}
	return nil
}

// Stop removes handlers, closes the gateway and waits for in-flight events
// until ctx expires.
func (a *Adapter) Stop(ctx context.Context) error {
	a.logger.Info("stop")
	a.mu.Lock()
	removers := a.removers
	a.removers = nil
	a.mu.Unlock()
	for _, remove := range removers {
		remove()
	}
	a.cancel()
	closeErr := a.session.Close()
	a.setConnected(false, "")

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		a.logger.Warn("stop timed out waiting for events", slog.Any("error", ctx.Err()))
	}
	if closeErr != nil {
		return fmt.Errorf("discord close connection: %w", closeErr)
	}
	return nil
}

// Status returns the latest connection snapshot.
func (a *Adapter) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *Adapter) currentSelf() quote.Self {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.self
}

func (a *Adapter) onReady(r *discordgo.Ready) {
	self := toSelf(r.User)
	a.mu.Lock()
	a.self = self
	a.status = Status{
		Connected: true,
		SelfID:    self.ID,
		Username:  self.Username,
		UpdatedAt: time.Now().UTC(),
	}
	a.mu.Unlock()
	a.logger.Info("ready", slog.String("user_id", self.ID), slog.String("username", self.Username), slog.Int("guilds", len(r.Guilds)))

	if err := a.session.UpdateListeningStatus(listeningStatus); err != nil {
		a.logger.Warn("update presence failed", slog.Any("error", err))
	}
}

func (a *Adapter) setConnected(connected bool, reason string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status.Connected = connected
	a.status.LastError = reason
	a.status.UpdatedAt = time.Now().UTC()
}

func (a *Adapter) onMessageCreate(m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil {
		return
	}
	if m.Author != nil && m.Author.Bot {
		return
	}
	if a.ctx.Err() != nil {
		return
	}
	if strings.TrimSpace(m.Content) == "" {
		return
	}
	if a.isDuplicateInbound(m.ID) {
		return
	}

	msg := toMessage(m.Message)
	log := a.logger.With(slog.String("task_id", uuid.NewString()), slog.String("message_id", msg.ID))
	a.dispatch(func(ctx context.Context) {
		if err := a.handler.HandleMessage(ctx, a.currentSelf(), msg); err != nil {
			log.Error("handle message failed", slog.String("channel_id", msg.ChannelID), slog.Any("error", err))
		}
	})
}

func (a *Adapter) onInteractionCreate(i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if a.ctx.Err() != nil {
		return
	}
	cmd := toCommand(i.Interaction)
	reply := newInteractionResponder(a.session, i.Interaction)
	log := a.logger.With(slog.String("task_id", uuid.NewString()), slog.String("command", cmd.Name))
	a.dispatch(func(ctx context.Context) {
		if err := a.handler.HandleCommand(ctx, a.currentSelf(), cmd, reply); err != nil {
			log.Error("handle command failed", slog.String("channel_id", cmd.ChannelID), slog.Any("error", err))
		}
	})
}

func (a *Adapter) dispatch(fn func(ctx context.Context)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(context.WithoutCancel(a.ctx))
	}()
}

func (a *Adapter) forgetWebhook(channelID string) {
	if a.webhooks == nil || strings.TrimSpace(channelID) == "" {
		return
	}
	a.webhooks.Forget(channelID)
	a.logger.Debug("webhook cache invalidated", slog.String("channel_id", channelID))
}

func (a *Adapter) isDuplicateInbound(messageID string) bool {
	if strings.TrimSpace(messageID) == "" {
		return false
	}

	now := time.Now().UTC()
	expireBefore := now.Add(-inboundDedupTTL)

	a.mu.Lock()
	defer a.mu.Unlock()

	for key, seenAt := range a.seenMessages {
		if seenAt.Before(expireBefore) {
			delete(a.seenMessages, key)
		}
	}

	if _, ok := a.seenMessages[messageID]; ok {
		return true
	}
	a.seenMessages[messageID] = now
	return false
}

func toCommand(i *discordgo.Interaction) quote.Command {
	data := i.ApplicationCommandData()
	cmd := quote.Command{
		Name:      data.Name,
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		cmd.UserID = i.Member.User.ID
	case i.User != nil:
		cmd.UserID = i.User.ID
	}
	for _, opt := range data.Options {
		if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
			continue
		}
		switch opt.Name {
		case optionMethod:
			cmd.Method = opt.StringValue()
		case optionValue:
			cmd.Value = opt.StringValue()
		}
	}
	return cmd
}
