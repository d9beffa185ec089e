package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/a-h/pdfrag/client"
)

type UploadCommand struct {
	ServerURL string   `help:"The URL of the PDF RAG server." env:"PDFRAG_URL" default:"http://localhost:8000"`
	Files     []string `arg:"" help:"The PDF files to index." type:"existingfile"`
	LogLevel  string   `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c UploadCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	files := make([]client.File, len(c.Files))
	for i, name := range c.Files {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer f.Close()
		files[i] = client.File{Name: filepath.Base(name), Data: f}
	}

	log.Info("uploading files", slog.Int("count", len(files)))
	msg, err := client.New(c.ServerURL).Upload(ctx, files...)
	if msg != "" {
		fmt.Println(msg)
	}
	return err
}
