// Package main provides the standalone PharmScribe HTTP API server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/anandvisw/pharmscribe-go/internal/analysis"
	"github.com/anandvisw/pharmscribe-go/internal/chat"
	"github.com/anandvisw/pharmscribe-go/internal/config"
	"github.com/anandvisw/pharmscribe-go/internal/gemini"
	"github.com/anandvisw/pharmscribe-go/internal/history"
	"github.com/anandvisw/pharmscribe-go/internal/router"
	"github.com/anandvisw/pharmscribe-go/internal/server"
)

func main() {
	cfg := config.Load()

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() { _ = cleanup() }()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := gemini.NewClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}

	chatModel, err := chat.NewGoogleAIModel(ctx, cfg)
	if err != nil {
		logger.Error("failed to create chat model", "error", err)
		os.Exit(1)
	}

	store := history.NewStore(cfg.HistoryPath)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close history store", "error", err)
		}
	}()

	analyzer := analysis.New(client, router.New(cfg), logger)
	srv := server.New(analyzer, client, chatModel, store, server.Options{
		PrimaryVoice:   cfg.VoicePrimary,
		SecondaryVoice: cfg.VoiceSecondary,
	}, logger)

	logger.Info("starting pharmscribe-server", "addr", cfg.ListenAddr)
	if err := srv.Run(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
