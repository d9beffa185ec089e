package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/a-h/pdfrag/client"
)

type ContextCommand struct {
	ServerURL string `help:"The URL of the PDF RAG server." env:"PDFRAG_URL" default:"http://localhost:8000"`
	Query     string `help:"The question to find context for." short:"q" required:""`
	Pretty    bool   `help:"Pretty print the JSON output." default:"true" negatable:""`
}

func (c ContextCommand) Run(ctx context.Context) (err error) {
	resp, err := client.New(c.ServerURL).Context(ctx, c.Query)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	if c.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
