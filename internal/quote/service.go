package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// User-facing command replies.
const (
	replyNotFound    = "No messages found."
	replyUnsupported = "Quoting is not supported in this channel."
	replyInvalidLink = "Please provide a valid message link."
	replyEmptyText   = "Please provide the text to search for."
	replyFailed      = "Something went wrong while quoting that message."
	replyUnknown     = "Unknown command."
)

// Options tunes a Service.
type Options struct {
	HistoryLimit int
	WebhookName  string
}

// Service wires the quote pipeline: match, resolve, build, sanitize, re-emit.
type Service struct {
	logger    *slog.Logger
	platform  Platform
	resolver  *Resolver
	builder   *Builder
	sanitizer *Sanitizer
	webhooks  *Webhooks
	mimic     *Mimic
}

// NewService creates the quote service over platform.
func NewService(log *slog.Logger, platform Platform, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	builder := NewBuilder(log, platform)
	webhooks := NewWebhooks(log, platform, opts.WebhookName)
	return &Service{
		logger:    log.With(slog.String("service", "quote")),
		platform:  platform,
		resolver:  NewResolver(log, platform, opts.HistoryLimit),
		builder:   builder,
		sanitizer: NewSanitizer(log, platform),
		webhooks:  webhooks,
		mimic:     NewMimic(log, platform, platform, webhooks, builder),
	}
}

// Webhooks exposes the webhook manager so platform events can evict its memo.
func (s *Service) Webhooks() *Webhooks {
	return s.webhooks
}

// HandleMessage runs the message path. Failures are reported to the caller
// for logging only; nothing is surfaced in the channel.
func (s *Service) HandleMessage(ctx context.Context, self Self, msg Message) error {
	if msg.Author.Bot {
		return nil
	}
	if strings.HasPrefix(msg.Content, HelpPrefix) {
		return s.platform.SendCards(ctx, msg.ChannelID, []Card{HelpCard()})
	}
	if msg.GuildID == "" {
		return nil
	}
	req := Match(msg.Content)
	if req.IsEmpty() {
		return nil
	}
	if !self.Valid() {
		return ErrMisconfigured
	}

	log := s.logger.With(
		slog.String("channel_id", msg.ChannelID),
		slog.String("message_id", msg.ID),
		slog.String("kind", req.Kind.String()),
	)
	scope := Scope{GuildID: msg.GuildID, ChannelID: msg.ChannelID}
	sources, err := s.resolver.Resolve(ctx, req, scope, ExcludeIDs(msg.ID))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnsupportedChannel) {
			log.Debug("quote not resolved", slog.Any("error", err))
			return nil
		}
		return err
	}
	cards := s.builder.BuildAll(ctx, sources, self)

	perms, err := s.platform.Permissions(ctx, msg.GuildID, msg.ChannelID, msg.Author.ID)
	if err != nil {
		log.Warn("permission lookup failed, neutralizing mentions", slog.Any("error", err))
		perms = Permissions{}
	}
	content := s.sanitizer.Sanitize(ctx, msg.Content, req, msg.GuildID, perms)

	outcome, err := s.mimic.Repost(ctx, msg, content, cards, self)
	log.Info("repost finished", slog.String("outcome", outcome.String()), slog.Int("cards", len(cards)))
	return err
}

// HandleCommand runs the interaction path and always answers through reply.
func (s *Service) HandleCommand(ctx context.Context, self Self, cmd Command, reply Responder) error {
	switch cmd.Name {
	case CommandHelp:
		return reply.Reply(ctx, Reply{Cards: []Card{HelpCard()}, Ephemeral: true})
	case CommandQuote:
	default:
		return reply.Reply(ctx, Reply{Content: replyUnknown, Ephemeral: true})
	}
	if !self.Valid() {
		if err := reply.Reply(ctx, Reply{Content: replyFailed, Ephemeral: true}); err != nil {
			return err
		}
		return ErrMisconfigured
	}

	scope := Scope{GuildID: cmd.GuildID, ChannelID: cmd.ChannelID}
	var (
		sources []Source
		err     error
	)
	switch cmd.Method {
	case MethodText:
		if strings.TrimSpace(cmd.Value) == "" {
			return reply.Reply(ctx, Reply{Content: replyEmptyText, Ephemeral: true})
		}
		if err := reply.Defer(ctx); err != nil {
			return err
		}
		var src Source
		src, err = s.resolver.ResolveText(ctx, cmd.Value, scope, ExcludeIDs())
		if err == nil {
			sources = []Source{src}
		}
	case MethodURL:
		links := ParseLinks(cmd.Value)
		if len(links) == 0 {
			return reply.Reply(ctx, Reply{Content: replyInvalidLink, Ephemeral: true})
		}
		if err := reply.Defer(ctx); err != nil {
			return err
		}
		sources, err = s.resolver.ResolveLinks(ctx, links, scope, ExcludeIDs())
	default:
		return reply.Reply(ctx, Reply{Content: fmt.Sprintf("Unknown method %q, use url or text.", cmd.Method), Ephemeral: true})
	}
	if err != nil {
		return s.replyFailure(ctx, reply, err)
	}
	return reply.Reply(ctx, Reply{Cards: s.builder.BuildAll(ctx, sources, self)})
}

func (s *Service) replyFailure(ctx context.Context, reply Responder, cause error) error {
	text := replyFailed
	switch {
	case errors.Is(cause, ErrNotFound):
		text = replyNotFound
	case errors.Is(cause, ErrUnsupportedChannel):
		text = replyUnsupported
	default:
		s.logger.Warn("quote command failed", slog.Any("error", cause))
	}
	return reply.Reply(ctx, Reply{Content: text, Ephemeral: true})
}
