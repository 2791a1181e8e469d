package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/memohai/quote/internal/config"
	"github.com/memohai/quote/internal/discord"
	"github.com/memohai/quote/internal/handlers"
	"github.com/memohai/quote/internal/healthcheck"
	discordchecker "github.com/memohai/quote/internal/healthcheck/checkers/discord"
	"github.com/memohai/quote/internal/logger"
	"github.com/memohai/quote/internal/quote"
	"github.com/memohai/quote/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and serve the health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			app := newApp(cfg)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func newApp(cfg config.Config) *fx.App {
	return fx.New(
		appOptions(cfg),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	)
}

func appOptions(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			provideLogger,
			provideSession,
			fx.Annotate(discord.NewPlatform, fx.As(new(quote.Platform))),
			provideQuoteService,
			provideAdapter,
			fx.Annotate(provideHealthRegistry, fx.As(new(healthcheck.Checker))),
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(handlers.NewHealthHandler),
			provideServer,
		),
		fx.Invoke(
			startBot,
			startServer,
		),
	)
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideSession(cfg config.Config) (*discordgo.Session, error) {
	return discord.NewSession(cfg.Discord.Token)
}

func provideQuoteService(log *slog.Logger, platform quote.Platform, cfg config.Config) *quote.Service {
	return quote.NewService(log, platform, quote.Options{
		HistoryLimit: cfg.Discord.HistoryLimit,
		WebhookName:  cfg.Discord.WebhookName,
	})
}

func provideAdapter(log *slog.Logger, session *discordgo.Session, svc *quote.Service) *discord.Adapter {
	return discord.NewAdapter(log, session, svc, svc.Webhooks())
}

func provideHealthRegistry(log *slog.Logger, adapter *discord.Adapter) *healthcheck.Registry {
	return healthcheck.NewRegistry(discordchecker.NewChecker(log, adapter))
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.ServerHandlers...)
}

func startBot(lc fx.Lifecycle, adapter *discord.Adapter) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return adapter.Start(ctx) },
		OnStop:  func(ctx context.Context) error { return adapter.Stop(ctx) },
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("http listening", slog.String("addr", srv.Addr()))
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
