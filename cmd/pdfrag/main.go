package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type CLI struct {
	Serve   ServeCommand   `cmd:"serve" help:"Start the PDF RAG server."`
	Upload  UploadCommand  `cmd:"upload" help:"Upload PDFs to the server, replacing the current index."`
	Ask     AskCommand     `cmd:"ask" help:"Ask a question about the uploaded PDFs."`
	Context ContextCommand `cmd:"context" help:"Print the chunks nearest to a question."`
	Status  StatusCommand  `cmd:"status" help:"Print the state of the index."`
	Chat    ChatCommand    `cmd:"chat" help:"Chat with the uploaded PDFs."`
	Import  ImportCommand  `cmd:"import" help:"Upload the PDF attachments of a Pocketbase collection."`
	Version VersionCommand `cmd:"version" help:"Print the version of the server."`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		getLogger("error").Error("failed to load .env file", slog.Any("error", err))
		os.Exit(1)
	}
	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli, kong.UsageOnError(), kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		log := getLogger("error")
		log.Error("error", slog.Any("error", err))
		os.Exit(1)
	}
}

func getLogger(level string) *slog.Logger {
	ll := slog.LevelInfo
	switch level {
	case "debug":
		ll = slog.LevelDebug
	case "info":
		ll = slog.LevelInfo
	case "warn":
		ll = slog.LevelWarn
	case "error":
		ll = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: ll,
	}))
}
