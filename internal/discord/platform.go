package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/memohai/quote/internal/quote"
)

// Platform implements quote.Platform on a discordgo session. State cache hits
// are preferred over REST calls where the gateway keeps the data.
type Platform struct {
	session *discordgo.Session
}

var _ quote.Platform = (*Platform)(nil)

// NewPlatform wraps session.
func NewPlatform(session *discordgo.Session) *Platform {
	return &Platform{session: session}
}

func (p *Platform) Channel(ctx context.Context, channelID string) (quote.Channel, error) {
	if strings.TrimSpace(channelID) == "" {
		return quote.Channel{}, fmt.Errorf("discord channel id is required")
	}
	if p.session.State != nil {
		if ch, err := p.session.State.Channel(channelID); err == nil {
			return toChannel(ch), nil
		}
	}
	ch, err := p.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return quote.Channel{}, fmt.Errorf("discord fetch channel: %w", err)
	}
	return toChannel(ch), nil
}

func (p *Platform) RecentMessages(ctx context.Context, channelID string, limit int) ([]quote.Source, error) {
	msgs, err := p.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord list messages: %w", err)
	}
	sources := make([]quote.Source, 0, len(msgs))
	for _, m := range msgs {
		if m != nil {
			sources = append(sources, toSource(m))
		}
	}
	return sources, nil
}

func (p *Platform) Message(ctx context.Context, channelID, messageID string) (quote.Source, error) {
	m, err := p.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return quote.Source{}, fmt.Errorf("discord fetch message: %w", err)
	}
	return toSource(m), nil
}

func (p *Platform) MemberDisplayName(ctx context.Context, guildID, userID string) (string, error) {
	if p.session.State != nil {
		if m, err := p.session.State.Member(guildID, userID); err == nil {
			if name := memberDisplayName(m); name != "" {
				return name, nil
			}
		}
	}
	m, err := p.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("discord fetch member: %w", err)
	}
	return memberDisplayName(m), nil
}

func (p *Platform) Role(ctx context.Context, guildID, roleID string) (quote.Role, error) {
	if p.session.State != nil {
		if r, err := p.session.State.Role(guildID, roleID); err == nil {
			return quote.Role{ID: r.ID, Name: r.Name, Mentionable: r.Mentionable}, nil
		}
	}
	roles, err := p.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return quote.Role{}, fmt.Errorf("discord list roles: %w", err)
	}
	for _, r := range roles {
		if r != nil && r.ID == roleID {
			return quote.Role{ID: r.ID, Name: r.Name, Mentionable: r.Mentionable}, nil
		}
	}
	return quote.Role{}, fmt.Errorf("discord role %s not found", roleID)
}

func (p *Platform) Webhooks(ctx context.Context, channelID string) ([]quote.Webhook, error) {
	hooks, err := p.session.ChannelWebhooks(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord list webhooks: %w", err)
	}
	items := make([]quote.Webhook, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			items = append(items, toWebhook(h))
		}
	}
	return items, nil
}

func (p *Platform) CreateWebhook(ctx context.Context, channelID, name string) (quote.Webhook, error) {
	h, err := p.session.WebhookCreate(channelID, name, "", discordgo.WithContext(ctx))
	if err != nil {
		return quote.Webhook{}, fmt.Errorf("discord create webhook: %w", err)
	}
	return toWebhook(h), nil
}

// CanDelete reports whether self may delete msg: its own messages always,
// others' only with Manage Messages in the channel.
func (p *Platform) CanDelete(ctx context.Context, msg quote.Message, self quote.Self) bool {
	if msg.Author.ID != "" && msg.Author.ID == self.ID {
		return true
	}
	perms, err := p.session.UserChannelPermissions(self.ID, msg.ChannelID, discordgo.WithContext(ctx))
	if err != nil {
		return false
	}
	return perms&(discordgo.PermissionManageMessages|discordgo.PermissionAdministrator) != 0
}

func (p *Platform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := p.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord delete message: %w", err)
	}
	return nil
}

func (p *Platform) ExecuteWebhook(ctx context.Context, endpoint quote.Endpoint, post quote.Post) error {
	params := webhookParams(post)
	var err error
	if endpoint.ThreadID != "" {
		_, err = p.session.WebhookThreadExecute(endpoint.Webhook.ID, endpoint.Webhook.Token, false, endpoint.ThreadID, params, discordgo.WithContext(ctx))
	} else {
		_, err = p.session.WebhookExecute(endpoint.Webhook.ID, endpoint.Webhook.Token, false, params, discordgo.WithContext(ctx))
	}
	if err != nil {
		return fmt.Errorf("discord execute webhook: %w", err)
	}
	return nil
}

func (p *Platform) Permissions(ctx context.Context, guildID, channelID, userID string) (quote.Permissions, error) {
	bits, err := p.session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return quote.Permissions{}, fmt.Errorf("discord member permissions: %w", err)
	}
	return toPermissions(bits), nil
}

func (p *Platform) SendCards(ctx context.Context, channelID string, cards []quote.Card) error {
	if _, err := p.session.ChannelMessageSendEmbeds(channelID, cardsToEmbeds(cards), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord send embeds: %w", err)
	}
	return nil
}

func webhookParams(post quote.Post) *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content:   truncateDiscordText(post.Content),
		Username:  truncateUsername(post.Username),
		AvatarURL: post.AvatarURL,
		Embeds:    cardsToEmbeds(post.Cards),
	}
}
