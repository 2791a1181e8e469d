package main

import (
	"bytes"
	"testing"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/fx"

	"github.com/memohai/quote/internal/config"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{{"serve"}, {"commands", "deploy"}, {"commands", "delete"}, {"commands", "list"}} {
		cmd, _, err := root.Find(path)
		if err != nil {
			t.Fatalf("find %v: %v", path, err)
		}
		if cmd.Name() != path[len(path)-1] {
			t.Fatalf("find %v: got %s", path, cmd.Name())
		}
	}
}

func TestConfigPathPrefersFlag(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "env.toml")

	root := newRootCmd()
	if got := configPath(root); got != "env.toml" {
		t.Fatalf("expected env path, got %q", got)
	}
	if err := root.PersistentFlags().Set("config", "flag.toml"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if got := configPath(root); got != "flag.toml" {
		t.Fatalf("expected flag path, got %q", got)
	}
}

func TestAppGraphIsComplete(t *testing.T) {
	cfg := config.Default()
	cfg.Discord.Token = "token"
	if err := fx.ValidateApp(appOptions(cfg)); err != nil {
		t.Fatalf("invalid app graph: %v", err)
	}
}

func TestPrintCommands(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printCommands(&buf, []*discordgo.ApplicationCommand{
		{ID: "1", Name: "quote", Description: "Quote a message"},
		nil,
		{ID: "2", Name: "help", Description: "Get help"},
	})
	want := "1\t/quote\tQuote a message\n2\t/help\tGet help\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q", buf.String())
	}
}
