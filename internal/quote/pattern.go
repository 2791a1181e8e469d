package quote

import (
	"regexp"
	"strings"
)

var (
	inlinePattern = regexp.MustCompile(`(?m)^>[ \t]+(?P<text>[^\n]*\S)[ \t]*$`)
	linkPattern   = regexp.MustCompile(`https?://(?:(?:ptb|canary)\.)?discord(?:app)?\.com/channels/(?P<guild>\d+)/(?P<channel>\d+)/(?P<message>\d+)`)
)

// RequestKind discriminates the grammar that matched a payload.
type RequestKind int

const (
	// RequestNone means the payload is plain text and carries no quote request.
	RequestNone RequestKind = iota
	// RequestInline is one or more "> text" marker lines.
	RequestInline
	// RequestLink is one or more message links.
	RequestLink
)

func (k RequestKind) String() string {
	switch k {
	case RequestInline:
		return "inline"
	case RequestLink:
		return "link"
	default:
		return "none"
	}
}

// LinkRef is one message link captured from a payload.
type LinkRef struct {
	GuildID   string
	ChannelID string
	MessageID string
	Raw       string
}

// Request is the parsed quote request. Downstream code never re-parses raw text.
type Request struct {
	Kind RequestKind
	// Query is the newline-joined inline marker text.
	Query string
	Links []LinkRef
}

// IsEmpty reports whether the payload carried no quote request.
func (r Request) IsEmpty() bool {
	return r.Kind == RequestNone
}

// Match classifies text. Inline markers take precedence over links.
func Match(text string) Request {
	if query, ok := matchInline(text); ok {
		return Request{Kind: RequestInline, Query: query}
	}
	if links := ParseLinks(text); len(links) > 0 {
		return Request{Kind: RequestLink, Links: links}
	}
	return Request{Kind: RequestNone}
}

func matchInline(text string) (string, bool) {
	matches := inlinePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	idx := inlinePattern.SubexpIndex("text")
	fragments := make([]string, 0, len(matches))
	for _, m := range matches {
		fragments = append(fragments, m[idx])
	}
	return strings.Join(fragments, "\n"), true
}

// ParseLinks returns every message link in text, in source order.
func ParseLinks(text string) []LinkRef {
	matches := linkPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	guild := linkPattern.SubexpIndex("guild")
	channel := linkPattern.SubexpIndex("channel")
	message := linkPattern.SubexpIndex("message")
	links := make([]LinkRef, 0, len(matches))
	for _, m := range matches {
		links = append(links, LinkRef{
			GuildID:   m[guild],
			ChannelID: m[channel],
			MessageID: m[message],
			Raw:       m[0],
		})
	}
	return links
}

// strip removes every span matched by the grammar of kind.
func strip(text string, kind RequestKind) string {
	switch kind {
	case RequestInline:
		return inlinePattern.ReplaceAllString(text, "")
	case RequestLink:
		return linkPattern.ReplaceAllString(text, "")
	default:
		return text
	}
}
