package quote

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

var (
	blankLinePattern   = regexp.MustCompile(`(?m)^[ \t\r\f\v]*(?:\n|$)`)
	roleMentionPattern = regexp.MustCompile(`<@&(\d{17,20})>`)
)

// Sanitizer strips quote syntax from the requester's text and neutralizes
// broad mentions the requester may not use.
type Sanitizer struct {
	logger *slog.Logger
	roles  RoleDirectory
}

// NewSanitizer creates a content sanitizer.
func NewSanitizer(log *slog.Logger, roles RoleDirectory) *Sanitizer {
	if log == nil {
		log = slog.Default()
	}
	return &Sanitizer{
		logger: log.With(slog.String("component", "sanitizer")),
		roles:  roles,
	}
}

// Sanitize removes the spans matched by req's grammar, drops blank lines and,
// unless perms allow broad mentions, renders @everyone, @here and role mentions inert.
func (s *Sanitizer) Sanitize(ctx context.Context, text string, req Request, guildID string, perms Permissions) string {
	out := RemoveEmptyLines(strip(text, req.Kind))
	if perms.BroadMentions() {
		return out
	}
	return strings.TrimSpace(s.NeutralizeMentions(ctx, guildID, out))
}

// RemoveEmptyLines deletes whitespace-only lines and trims the result.
func RemoveEmptyLines(text string) string {
	return strings.TrimSpace(blankLinePattern.ReplaceAllString(text, ""))
}

// NeutralizeMentions wraps broad mentions in code spans. Mentionable roles stay live.
func (s *Sanitizer) NeutralizeMentions(ctx context.Context, guildID, text string) string {
	text = strings.ReplaceAll(text, "@here", inert("@here"))
	text = strings.ReplaceAll(text, "@everyone", inert("@everyone"))
	return roleMentionPattern.ReplaceAllStringFunc(text, func(token string) string {
		roleID := roleMentionPattern.FindStringSubmatch(token)[1]
		if s.roles == nil {
			return inert(token)
		}
		role, err := s.roles.Role(ctx, guildID, roleID)
		if err != nil {
			s.logger.Debug("role lookup failed",
				slog.String("guild_id", guildID),
				slog.String("role_id", roleID),
				slog.Any("error", err),
			)
			return inert(token)
		}
		if role.Mentionable {
			return token
		}
		return inert("@" + role.Name)
	})
}

func inert(s string) string {
	return "`" + s + "`"
}
