package main

import (
	"context"
	"fmt"

	"github.com/a-h/pdfrag/client"
)

type AskCommand struct {
	ServerURL string `help:"The URL of the PDF RAG server." env:"PDFRAG_URL" default:"http://localhost:8000"`
	Query     string `help:"The question to ask." short:"q" required:""`
}

func (c AskCommand) Run(ctx context.Context) (err error) {
	answer, err := client.New(c.ServerURL).Ask(ctx, c.Query)
	if answer != "" {
		fmt.Println(answer)
	}
	return err
}
