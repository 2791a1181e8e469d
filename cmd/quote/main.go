package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memohai/quote/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "quote",
		Short:        "Discord bot that re-posts quoted messages as embeds",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Config file path (defaults to $CONFIG_PATH or config.toml).")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCommandsCmd())

	return cmd
}

func configPath(cmd *cobra.Command) string {
	if flag := cmd.Flag("config"); flag != nil {
		if path := strings.TrimSpace(flag.Value.String()); path != "" {
			return path
		}
	}
	return strings.TrimSpace(os.Getenv(config.EnvConfigPath))
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
