package quote

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

// CardColor is the accent of freshly built quote cards.
const CardColor = 0x2f3136

// MaxCards is the most cards one post can carry.
const MaxCards = 10

var discriminatorSuffix = regexp.MustCompile(`#\d{4}$`)

// Builder turns resolved sources into quote cards.
type Builder struct {
	logger  *slog.Logger
	members MemberDirectory
}

// NewBuilder creates a card builder.
func NewBuilder(log *slog.Logger, members MemberDirectory) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		logger:  log.With(slog.String("component", "card_builder")),
		members: members,
	}
}

// DisplayName prefers the guild nickname, falling back to the account tag.
// Webhook authors carry a synthetic discriminator that is stripped.
func (b *Builder) DisplayName(ctx context.Context, guildID string, author Author) string {
	if author.Webhook {
		return discriminatorSuffix.ReplaceAllString(author.Tag, "")
	}
	if b.members != nil && guildID != "" {
		name, err := b.members.MemberDisplayName(ctx, guildID, author.ID)
		if err == nil && strings.TrimSpace(name) != "" {
			return name
		}
		if err != nil {
			b.logger.Debug("member lookup failed, using account tag",
				slog.String("guild_id", guildID),
				slog.String("user_id", author.ID),
				slog.Any("error", err),
			)
		}
	}
	return author.Tag
}

// Build returns the cards for one source. Cards previously emitted by self are
// copied verbatim so quoting a quote never nests; a fresh card is added for the
// body unless the source is an empty wrapper around such cards.
func (b *Builder) Build(ctx context.Context, src Source, self Self) []Card {
	prior := Flatten(src.Cards, self)
	if len(prior) > 0 && strings.TrimSpace(src.Content) == "" {
		return prior
	}
	return append(prior, b.fresh(ctx, src, self))
}

// BuildAll builds cards for every source, ordered oldest source first, and
// keeps at most MaxCards of them.
func (b *Builder) BuildAll(ctx context.Context, sources []Source, self Self) []Card {
	ordered := make([]Source, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})
	cards := make([]Card, 0, len(ordered))
	for _, src := range ordered {
		if len(cards) >= MaxCards {
			break
		}
		cards = append(cards, b.Build(ctx, src, self)...)
	}
	if len(cards) > MaxCards {
		b.logger.Debug("quote cards truncated", slog.Int("cards", len(cards)), slog.Int("max", MaxCards))
		cards = cards[:MaxCards]
	}
	return cards
}

func (b *Builder) fresh(ctx context.Context, src Source, self Self) Card {
	title := strings.TrimSpace(src.ChannelTitle)
	if title == "" {
		title = src.ChannelID
	}
	card := Card{
		Color:         CardColor,
		Title:         "#" + title,
		Description:   src.Content,
		URL:           src.URL(),
		Timestamp:     src.CreatedAt,
		FooterText:    self.Username,
		FooterIconURL: self.AvatarURL,
		AuthorName:    b.DisplayName(ctx, src.GuildID, src.Author),
		AuthorIconURL: src.Author.IconURL,
	}
	if len(src.Attachments) > 0 {
		card.ImageURL = src.Attachments[0].URL
	}
	return card
}

// Flatten returns the cards among embeds that self emitted earlier.
func Flatten(embeds []Card, self Self) []Card {
	if len(embeds) == 0 || self.Username == "" {
		return nil
	}
	var cards []Card
	for _, embed := range embeds {
		if embed.FooterText == self.Username {
			cards = append(cards, embed)
		}
	}
	return cards
}
