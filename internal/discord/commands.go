package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/memohai/quote/internal/quote"
)

const (
	optionMethod = "method"
	optionValue  = "value"
)

type commandSession interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// Definitions returns the slash commands the bot answers.
func Definitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        quote.CommandQuote,
			Description: "Quote a message by link or by text",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionMethod,
					Description: "How to find the message",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: quote.MethodURL, Value: quote.MethodURL},
						{Name: quote.MethodText, Value: quote.MethodText},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionValue,
					Description: "Message link or text to search for",
					Required:    true,
				},
			},
		},
		{
			Name:        quote.CommandHelp,
			Description: "Get help with using the bot",
		},
	}
}

// Commands manages slash command registration. An empty guild id targets
// global commands.
type Commands struct {
	session commandSession
	appID   string
	guildID string
}

func NewCommands(session *discordgo.Session, appID, guildID string) (*Commands, error) {
	return newCommands(session, appID, guildID)
}

func newCommands(session commandSession, appID, guildID string) (*Commands, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, fmt.Errorf("%w: client id is required", quote.ErrMisconfigured)
	}
	return &Commands{session: session, appID: appID, guildID: strings.TrimSpace(guildID)}, nil
}

// Scope describes where commands are registered.
func (c *Commands) Scope() string {
	if c.guildID == "" {
		return "global"
	}
	return "guild " + c.guildID
}

// Deploy replaces the registered command set with Definitions.
func (c *Commands) Deploy(ctx context.Context) ([]*discordgo.ApplicationCommand, error) {
	cmds, err := c.session.ApplicationCommandBulkOverwrite(c.appID, c.guildID, Definitions(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord deploy commands: %w", err)
	}
	return cmds, nil
}

func (c *Commands) List(ctx context.Context) ([]*discordgo.ApplicationCommand, error) {
	cmds, err := c.session.ApplicationCommands(c.appID, c.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord list commands: %w", err)
	}
	return cmds, nil
}

// Delete removes each id, continuing past failures.
func (c *Commands) Delete(ctx context.Context, ids ...string) error {
	var errs []error
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if err := c.session.ApplicationCommandDelete(c.appID, c.guildID, id, discordgo.WithContext(ctx)); err != nil {
			errs = append(errs, fmt.Errorf("discord delete command %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
