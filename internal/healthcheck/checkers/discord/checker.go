package discordchecker

import (
	"context"
	"log/slog"
	"strings"

	"github.com/memohai/quote/internal/discord"
	"github.com/memohai/quote/internal/healthcheck"
)

const (
	checkTypeSession  = "discord.session"
	checkTypeIdentity = "discord.identity"
)

// StatusObserver reads the gateway connection snapshot.
type StatusObserver interface {
	Status() discord.Status
}

// Checker reports gateway connectivity and bot identity.
type Checker struct {
	logger   *slog.Logger
	observer StatusObserver
}

// NewChecker creates a discord session health checker.
func NewChecker(log *slog.Logger, observer StatusObserver) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		logger:   log.With(slog.String("checker", "healthcheck_discord")),
		observer: observer,
	}
}

func (c *Checker) ListChecks(ctx context.Context) []healthcheck.CheckResult {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return []healthcheck.CheckResult{}
	}
	if c.observer == nil {
		c.logger.Warn("discord healthcheck dependency is unavailable")
		return []healthcheck.CheckResult{
			{
				ID:      checkTypeSession + ".service",
				Type:    checkTypeSession,
				Status:  healthcheck.StatusWarn,
				Summary: "Discord checker service is not available.",
				Detail:  "status observer is nil",
			},
		}
	}

	status := c.observer.Status()
	return []healthcheck.CheckResult{sessionCheck(status), identityCheck(status)}
}

func sessionCheck(status discord.Status) healthcheck.CheckResult {
	item := healthcheck.CheckResult{
		ID:       checkTypeSession,
		Type:     checkTypeSession,
		Status:   healthcheck.StatusError,
		Summary:  "Discord gateway is disconnected.",
		Metadata: map[string]any{"connected": status.Connected},
	}
	if !status.UpdatedAt.IsZero() {
		item.Metadata["updated_at"] = status.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	switch {
	case status.Connected:
		item.Status = healthcheck.StatusOK
		item.Summary = "Discord gateway is connected."
	case status.UpdatedAt.IsZero():
		item.Status = healthcheck.StatusUnknown
		item.Summary = "Discord gateway has not reported yet."
	case strings.TrimSpace(status.LastError) != "":
		item.Summary = "Discord gateway connection failed."
		item.Detail = strings.TrimSpace(status.LastError)
	}
	return item
}

func identityCheck(status discord.Status) healthcheck.CheckResult {
	item := healthcheck.CheckResult{
		ID:      checkTypeIdentity,
		Type:    checkTypeIdentity,
		Status:  healthcheck.StatusWarn,
		Summary: "Bot identity is not known yet.",
	}
	if status.SelfID != "" && status.Username != "" {
		item.Status = healthcheck.StatusOK
		item.Subtitle = status.Username
		item.Summary = "Bot identity is known."
		item.Metadata = map[string]any{"user_id": status.SelfID}
	}
	return item
}
