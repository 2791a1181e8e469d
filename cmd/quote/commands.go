package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"github.com/memohai/quote/internal/config"
	"github.com/memohai/quote/internal/discord"
)

const commandsTimeout = 30 * time.Second

func newCommandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage the bot's slash commands",
	}
	cmd.PersistentFlags().String("guild", "", "Guild id to scope commands to (defaults to $GUILD_ID, empty means global).")

	cmd.AddCommand(&cobra.Command{
		Use:   "deploy",
		Short: "Register the quote and help commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCommands(cmd, func(ctx context.Context, c *discord.Commands) error {
				cmds, err := c.Deploy(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deployed %d commands (%s).\n", len(cmds), c.Scope())
				printCommands(cmd.OutOrStdout(), cmds)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete registered commands by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCommands(cmd, func(ctx context.Context, c *discord.Commands) error {
				if err := c.Delete(ctx, args...); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d commands (%s).\n", len(args), c.Scope())
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCommands(cmd, func(ctx context.Context, c *discord.Commands) error {
				cmds, err := c.List(ctx)
				if err != nil {
					return err
				}
				printCommands(cmd.OutOrStdout(), cmds)
				return nil
			})
		},
	})
	return cmd
}

func commandsConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, err
	}
	if flag := cmd.Flag("guild"); flag != nil && flag.Value.String() != "" {
		cfg.Discord.GuildID = flag.Value.String()
	}
	return cfg, nil
}

func withCommands(cmd *cobra.Command, fn func(ctx context.Context, c *discord.Commands) error) error {
	cfg, err := commandsConfig(cmd)
	if err != nil {
		return err
	}
	session, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		return err
	}
	commands, err := discord.NewCommands(session, cfg.Discord.ClientID, cfg.Discord.GuildID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), commandsTimeout)
	defer cancel()
	return fn(ctx, commands)
}

func printCommands(w io.Writer, cmds []*discordgo.ApplicationCommand) {
	for _, c := range cmds {
		if c != nil {
			fmt.Fprintf(w, "%s\t/%s\t%s\n", c.ID, c.Name, c.Description)
		}
	}
}
