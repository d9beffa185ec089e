package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/a-h/pdfrag/client"
	"github.com/a-h/pdfrag/models"
	"gopkg.in/yaml.v3"
)

type StatusCommand struct {
	ServerURL string `help:"The URL of the PDF RAG server." env:"PDFRAG_URL" default:"http://localhost:8000"`
	JSON      bool   `help:"Print JSON instead of YAML." default:"false"`
}

func (c StatusCommand) Run(ctx context.Context) (err error) {
	resp, err := client.New(c.ServerURL).Status(ctx)
	if err != nil {
		return err
	}
	return writeStatus(os.Stdout, resp, c.JSON)
}

func writeStatus(w io.Writer, resp models.StatusGetResponse, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(resp)
}
