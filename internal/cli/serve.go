package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anandvisw/pharmscribe-go/internal/chat"
	"github.com/anandvisw/pharmscribe-go/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the PharmScribe HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer, err := getAnalyzer(ctx)
	if err != nil {
		return err
	}
	chatModel, err := chat.NewGoogleAIModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init chat model: %w", err)
	}

	store := getStore()
	defer store.Close()

	srv := server.New(analyzer, geminiClient, chatModel, store, server.Options{
		PrimaryVoice:   cfg.VoicePrimary,
		SecondaryVoice: cfg.VoiceSecondary,
	}, logger)

	addr := serveAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}
	return srv.Run(ctx, addr)
}
