package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"wojakbot/internal/bot"
	"wojakbot/internal/entitlement"
	"wojakbot/internal/http/handlers"
	"wojakbot/internal/http/httpapi"
	"wojakbot/internal/infra"
	"wojakbot/internal/ledger"
	"wojakbot/internal/providers/style"
	"wojakbot/internal/telegram"
	"wojakbot/internal/watermark"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store := ledger.NewPG(infra.NewSQLRunner(dbpool, logger), infra.FreeQuota)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	engine := entitlement.New(store, infra.FreeQuota, infra.PriceXTR)
	styler := style.NewClient(style.Options{
		BaseURL: cfg.FalBaseURL,
		Model:   cfg.FalModel,
		APIKey:  cfg.FalKey,
	})
	compositor := watermark.New(cfg.WatermarkText, cfg.FontPaths)
	tg := telegram.NewClient(telegram.Options{
		BaseURL: cfg.TelegramBaseURL,
		Token:   cfg.BotToken,
	})

	app := bot.NewApp(cfg, logger, store, engine, styler, compositor, tg)

	adminApp := handlers.NewApp(store, logger, cfg.AdminStatsToken)
	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(adminApp, logger))

	go func() {
		logger.Info().Msgf("admin API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	logger.Info().Msg("starting bot...")
	if err := app.Poll(ctx, tg); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("poll loop stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
