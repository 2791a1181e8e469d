package quote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultHistoryLimit is the lookback window for text queries.
const DefaultHistoryLimit = 100

// Scope is where a request was issued.
type Scope struct {
	GuildID   string
	ChannelID string
}

// Excludes is a set of message ids a text query must skip.
type Excludes map[string]struct{}

// ExcludeIDs builds an exclusion set. With no ids it matches nothing.
func ExcludeIDs(ids ...string) Excludes {
	set := make(Excludes, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Has reports whether id is excluded.
func (e Excludes) Has(id string) bool {
	_, ok := e[id]
	return ok
}

// Resolver finds source messages for parsed requests.
type Resolver struct {
	logger *slog.Logger
	source MessageSource
	limit  int
}

// NewResolver creates a resolver. A non-positive or oversized limit falls back to DefaultHistoryLimit.
func NewResolver(log *slog.Logger, source MessageSource, limit int) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return &Resolver{
		logger: log.With(slog.String("component", "resolver")),
		source: source,
		limit:  limit,
	}
}

// Resolve dispatches on the request kind. Text queries yield at most one source.
func (r *Resolver) Resolve(ctx context.Context, req Request, scope Scope, excludes Excludes) ([]Source, error) {
	switch req.Kind {
	case RequestInline:
		src, err := r.ResolveText(ctx, req.Query, scope, excludes)
		if err != nil {
			return nil, err
		}
		return []Source{src}, nil
	case RequestLink:
		return r.ResolveLinks(ctx, req.Links, scope, excludes)
	default:
		return nil, ErrNotFound
	}
}

// ResolveText returns the most recent message in the scope channel whose content
// contains query. Only the configured window is searched; older history is never paged.
func (r *Resolver) ResolveText(ctx context.Context, query string, scope Scope, excludes Excludes) (Source, error) {
	if strings.TrimSpace(query) == "" {
		return Source{}, ErrNotFound
	}
	ch, err := r.source.Channel(ctx, scope.ChannelID)
	if err != nil {
		return Source{}, fmt.Errorf("%w: fetch channel %s: %v", ErrRemoteCall, scope.ChannelID, err)
	}
	if !ch.Kind.Readable() {
		return Source{}, fmt.Errorf("%w: %s channel %s", ErrUnsupportedChannel, ch.Kind, ch.ID)
	}
	messages, err := r.source.RecentMessages(ctx, ch.ID, r.limit)
	if err != nil {
		return Source{}, fmt.Errorf("%w: list messages in %s: %v", ErrRemoteCall, ch.ID, err)
	}
	for _, msg := range messages {
		if excludes.Has(msg.MessageID) {
			continue
		}
		if strings.Contains(msg.Content, query) {
			return withChannel(msg, ch, scope.GuildID), nil
		}
	}
	return Source{}, ErrNotFound
}

// ResolveLinks fetches every linked message in the requester's guild. Failures of
// one link are logged and skipped; ErrNotFound is returned only when nothing resolved.
func (r *Resolver) ResolveLinks(ctx context.Context, links []LinkRef, scope Scope, excludes Excludes) ([]Source, error) {
	sources := make([]Source, 0, len(links))
	for _, link := range links {
		if link.GuildID != scope.GuildID {
			r.logger.Debug("cross guild link discarded",
				slog.String("guild_id", scope.GuildID),
				slog.String("link_guild_id", link.GuildID),
			)
			continue
		}
		if excludes.Has(link.MessageID) {
			continue
		}
		src, err := r.resolveLink(ctx, link)
		if err != nil {
			r.logger.Warn("resolve link failed",
				slog.String("channel_id", link.ChannelID),
				slog.String("message_id", link.MessageID),
				slog.Any("error", err),
			)
			continue
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, ErrNotFound
	}
	return sources, nil
}

func (r *Resolver) resolveLink(ctx context.Context, link LinkRef) (Source, error) {
	ch, err := r.source.Channel(ctx, link.ChannelID)
	if err != nil {
		return Source{}, fmt.Errorf("%w: fetch channel: %v", ErrRemoteCall, err)
	}
	if !ch.Kind.Readable() {
		return Source{}, fmt.Errorf("%w: %s", ErrUnsupportedChannel, ch.Kind)
	}
	msg, err := r.source.Message(ctx, ch.ID, link.MessageID)
	if err != nil {
		return Source{}, fmt.Errorf("%w: fetch message: %v", ErrRemoteCall, err)
	}
	return withChannel(msg, ch, link.GuildID), nil
}

func withChannel(src Source, ch Channel, guildID string) Source {
	src.ChannelID = ch.ID
	src.ChannelTitle = ch.Name
	if src.GuildID == "" {
		src.GuildID = guildID
	}
	return src
}
