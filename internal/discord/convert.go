package discord

import (
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/memohai/quote/internal/quote"
)

const (
	discordMaxContentLength  = 2000
	discordMaxEmbeds         = quote.MaxCards
	discordMaxUsernameLength = 80
	avatarIconSize           = "64"
)

func channelKind(t discordgo.ChannelType) quote.ChannelKind {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return quote.KindStandardText
	case discordgo.ChannelTypeGuildNews:
		return quote.KindAnnouncement
	case discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildNewsThread:
		return quote.KindPublicThread
	default:
		return quote.KindOther
	}
}

func toChannel(ch *discordgo.Channel) quote.Channel {
	if ch == nil {
		return quote.Channel{Kind: quote.KindOther}
	}
	return quote.Channel{
		ID:       ch.ID,
		GuildID:  ch.GuildID,
		ParentID: ch.ParentID,
		Name:     ch.Name,
		Kind:     channelKind(ch.Type),
	}
}

func toAuthor(u *discordgo.User, webhook bool) quote.Author {
	if u == nil {
		return quote.Author{Webhook: webhook}
	}
	return quote.Author{
		ID:        u.ID,
		Tag:       u.String(),
		AvatarURL: u.AvatarURL(""),
		IconURL:   u.AvatarURL(avatarIconSize),
		Bot:       u.Bot,
		Webhook:   webhook,
	}
}

func toMessage(m *discordgo.Message) quote.Message {
	return quote.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
		Author:    toAuthor(m.Author, m.WebhookID != ""),
	}
}

func toSource(m *discordgo.Message) quote.Source {
	src := quote.Source{
		MessageID: m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Author:    toAuthor(m.Author, m.WebhookID != ""),
		Content:   m.Content,
		CreatedAt: m.Timestamp,
	}
	for _, att := range m.Attachments {
		if att != nil && att.URL != "" {
			src.Attachments = append(src.Attachments, quote.Attachment{URL: att.URL})
		}
	}
	for _, embed := range m.Embeds {
		if embed != nil {
			src.Cards = append(src.Cards, embedToCard(embed))
		}
	}
	return src
}

func toSelf(u *discordgo.User) quote.Self {
	if u == nil {
		return quote.Self{}
	}
	return quote.Self{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL(""),
	}
}

func toPermissions(bits int64) quote.Permissions {
	return quote.Permissions{
		MentionEveryone: bits&discordgo.PermissionMentionEveryone != 0,
		Administrator:   bits&discordgo.PermissionAdministrator != 0,
	}
}

func toWebhook(w *discordgo.Webhook) quote.Webhook {
	hook := quote.Webhook{
		ID:        w.ID,
		Token:     w.Token,
		ChannelID: w.ChannelID,
	}
	if w.User != nil {
		hook.OwnerID = w.User.ID
	}
	return hook
}

func memberDisplayName(m *discordgo.Member) string {
	if m == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User == nil {
		return ""
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

// embedToCard copies every quote card field of an embed.
func embedToCard(e *discordgo.MessageEmbed) quote.Card {
	card := quote.Card{
		Color:       e.Color,
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
	}
	if ts, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
		card.Timestamp = ts
	}
	if e.Footer != nil {
		card.FooterText = e.Footer.Text
		card.FooterIconURL = e.Footer.IconURL
	}
	if e.Author != nil {
		card.AuthorName = e.Author.Name
		card.AuthorIconURL = e.Author.IconURL
	}
	if e.Image != nil {
		card.ImageURL = e.Image.URL
	}
	return card
}

func cardToEmbed(c quote.Card) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Color:       c.Color,
		Title:       c.Title,
		Description: c.Description,
		URL:         c.URL,
	}
	if !c.Timestamp.IsZero() {
		embed.Timestamp = c.Timestamp.UTC().Format(time.RFC3339)
	}
	if c.FooterText != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: c.FooterText, IconURL: c.FooterIconURL}
	}
	if c.AuthorName != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: c.AuthorName, IconURL: c.AuthorIconURL}
	}
	if c.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: c.ImageURL}
	}
	return embed
}

func cardsToEmbeds(cards []quote.Card) []*discordgo.MessageEmbed {
	if len(cards) == 0 {
		return nil
	}
	if len(cards) > discordMaxEmbeds {
		cards = cards[:discordMaxEmbeds]
	}
	embeds := make([]*discordgo.MessageEmbed, 0, len(cards))
	for _, c := range cards {
		embeds = append(embeds, cardToEmbed(c))
	}
	return embeds
}

// truncateDiscordText limits text to discordMaxContentLength runes, which is
// how Discord counts message length.
func truncateDiscordText(text string) string {
	if utf8.RuneCountInString(text) <= discordMaxContentLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:discordMaxContentLength-3]) + "..."
}

func truncateUsername(name string) string {
	runes := []rune(name)
	if len(runes) > discordMaxUsernameLength {
		return string(runes[:discordMaxUsernameLength])
	}
	return name
}
