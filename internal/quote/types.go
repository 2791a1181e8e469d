// Package quote detects quote requests in chat messages, resolves the quoted
// message and re-emits the request as a quote card under the requester's identity.
package quote

import (
	"strings"
	"time"
)

// ChannelKind is the closed set of channel kinds the quote engine distinguishes.
type ChannelKind int

const (
	// KindOther covers every channel kind without quote support (voice, DM, forum, category, ...).
	KindOther ChannelKind = iota
	// KindStandardText is a regular guild text channel.
	KindStandardText
	// KindAnnouncement is a guild announcement (news) channel.
	KindAnnouncement
	// KindPublicThread is a public thread under a text or announcement channel.
	KindPublicThread
)

// String returns a stable name for logging.
func (k ChannelKind) String() string {
	switch k {
	case KindStandardText:
		return "text"
	case KindAnnouncement:
		return "announcement"
	case KindPublicThread:
		return "public_thread"
	default:
		return "other"
	}
}

// Readable reports whether messages in a channel of this kind can be quoted.
func (k ChannelKind) Readable() bool {
	switch k {
	case KindStandardText, KindAnnouncement, KindPublicThread:
		return true
	default:
		return false
	}
}

// HostsWebhooks reports whether a channel of this kind can own a webhook directly.
func (k ChannelKind) HostsWebhooks() bool {
	switch k {
	case KindStandardText, KindAnnouncement:
		return true
	default:
		return false
	}
}

// Channel is the subset of channel metadata the engine needs.
type Channel struct {
	ID       string
	GuildID  string
	ParentID string
	Name     string
	Kind     ChannelKind
}

// Self is the bot's own identity, threaded explicitly through every call.
type Self struct {
	ID        string
	Username  string
	AvatarURL string
}

// Valid reports whether the identity is usable.
func (s Self) Valid() bool {
	return strings.TrimSpace(s.ID) != "" && strings.TrimSpace(s.Username) != ""
}

// Author identifies the author of a message.
type Author struct {
	ID string
	// Tag is the account-wide name, e.g. "alice" or "hook#0000" for webhook authors.
	Tag       string
	AvatarURL string
	// IconURL is a small avatar suitable for card author icons.
	IconURL string
	Bot     bool
	Webhook bool
}

// Attachment is a file attached to a message.
type Attachment struct {
	URL string
}

// Source is a resolved message that can be turned into quote cards.
type Source struct {
	MessageID    string
	ChannelID    string
	GuildID      string
	ChannelTitle string
	Author       Author
	Content      string
	CreatedAt    time.Time
	Attachments  []Attachment
	// Cards holds the embeds already present on the message.
	Cards []Card
}

// URL returns the jump link of the source message.
func (s Source) URL() string {
	return MessageURL(s.GuildID, s.ChannelID, s.MessageID)
}

// MessageURL builds a message jump link.
func MessageURL(guildID, channelID, messageID string) string {
	return "https://discord.com/channels/" + guildID + "/" + channelID + "/" + messageID
}

// Card is a rendered quote card. Empty strings and the zero time mean absent.
type Card struct {
	Color         int
	Title         string
	Description   string
	URL           string
	Timestamp     time.Time
	FooterText    string
	FooterIconURL string
	AuthorName    string
	AuthorIconURL string
	ImageURL      string
}

// Permissions are the requester privileges relevant to mention handling.
type Permissions struct {
	MentionEveryone bool
	Administrator   bool
}

// BroadMentions reports whether @everyone, @here and role mentions may stay live.
func (p Permissions) BroadMentions() bool {
	return p.MentionEveryone || p.Administrator
}

// Role is a guild role.
type Role struct {
	ID          string
	Name        string
	Mentionable bool
}

// Webhook is a channel-scoped impersonation endpoint.
type Webhook struct {
	ID        string
	Token     string
	ChannelID string
	OwnerID   string
}

// Endpoint is an acquired webhook plus the thread the post must be routed into.
type Endpoint struct {
	Webhook  Webhook
	ThreadID string
}

// Post is the payload sent through an Endpoint.
type Post struct {
	Content   string
	Username  string
	AvatarURL string
	Cards     []Card
}

// Message is an inbound guild message.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	Content   string
	Author    Author
}

// Command is an inbound slash-command invocation.
type Command struct {
	Name      string
	Method    string
	Value     string
	ChannelID string
	GuildID   string
	UserID    string
}

// Command names and quote methods.
const (
	CommandQuote = "quote"
	CommandHelp  = "help"

	MethodURL  = "url"
	MethodText = "text"
)

// Reply is a direct answer to a command invocation.
type Reply struct {
	Content   string
	Cards     []Card
	Ephemeral bool
}
