package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/a-h/pdfrag/client"
	"github.com/pluja/pocketbase"
)

type ImportCommand struct {
	ServerURL     string `help:"The URL of the PDF RAG server." env:"PDFRAG_URL" default:"http://localhost:8000"`
	PocketbaseURL string `help:"The URL of the Pocketbase server." env:"POCKETBASE_URL" default:"http://localhost:8090"`
	Collection    string `help:"The name of the collection to export from." env:"COLLECTION" default:"documents"`
	Files         string `help:"Comma separated list of fields that contain Pocketbase file references." env:"FILES" default:"files"`
	ID            string `help:"The ID of a single record to import." env:"ID" default:""`
	DryRun        bool   `help:"List the PDFs without uploading them." env:"DRY_RUN" default:"false"`
	LogLevel      string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

// Run uploads every PDF as a single batch, since each upload replaces the index.
func (c ImportCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	pbe := NewPocketbaseExporter(c.PocketbaseURL, pocketbase.NewClient(c.PocketbaseURL), c.Collection, c.Files)
	var files []client.File
	for a := range pbe.Export(ctx) {
		if c.ID != "" && a.RecordID != c.ID {
			continue
		}
		log.Info("found PDF", slog.String("record", a.RecordID), slog.String("file", a.FileName))
		if c.DryRun {
			continue
		}
		data, err := download(ctx, a.URL)
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", a.FileName, err)
		}
		files = append(files, client.File{Name: a.FileName, Data: bytes.NewReader(data)})
	}
	if pbe.Error != nil {
		return pbe.Error
	}
	if c.DryRun {
		return nil
	}
	if len(files) == 0 {
		log.Warn("no PDFs found", slog.String("collection", c.Collection))
		return nil
	}

	log.Info("uploading PDFs", slog.Int("count", len(files)))
	msg, err := client.New(c.ServerURL).Upload(ctx, files...)
	if msg != "" {
		fmt.Println(msg)
	}
	return err
}

func NewPocketbaseExporter(baseURL string, client *pocketbase.Client, collection, files string) *PocketbaseExporter {
	return &PocketbaseExporter{
		baseURL:    baseURL,
		client:     client,
		collection: collection,
		files:      strings.Split(files, ","),
		PageSize:   10,
	}
}

type PocketbaseExporter struct {
	// baseURL for downloading files, e.g. http://localhost:8090
	baseURL    string
	client     *pocketbase.Client
	collection string
	files      []string
	PageSize   int
	Error      error
}

type Attachment struct {
	RecordID string
	FileName string
	URL      string
}

func (p *PocketbaseExporter) Export(ctx context.Context) iter.Seq[Attachment] {
	var page int
	return func(yield func(Attachment) bool) {
		for {
			if ctx.Err() != nil {
				p.Error = ctx.Err()
				return
			}
			page++
			response, err := p.client.List(p.collection, pocketbase.ParamsList{
				Page: page,
				Size: p.PageSize,
				Sort: "-created",
			})
			if err != nil {
				p.Error = err
				return
			}
			if len(response.Items) == 0 {
				return
			}
			for _, item := range response.Items {
				id, _ := item["id"].(string)
				for _, name := range pdfAttachments(item, p.files) {
					u, err := createURL(p.baseURL, "api", "files", p.collection, id, name)
					if err != nil {
						p.Error = fmt.Errorf("failed to create download URL: %w", err)
						return
					}
					if !yield(Attachment{RecordID: id, FileName: name, URL: u}) {
						return
					}
				}
			}
		}
	}
}

// pdfAttachments returns the PDF file names held in the given file fields.
// Fields may hold a single file name or a list of them.
func pdfAttachments(item map[string]any, fields []string) (names []string) {
	for _, field := range fields {
		var values []any
		switch v := item[strings.TrimSpace(field)].(type) {
		case string:
			values = []any{v}
		case []any:
			values = v
		}
		for _, v := range values {
			name, ok := v.(string)
			if !ok || !strings.EqualFold(filepath.Ext(name), ".pdf") {
				continue
			}
			names = append(names, name)
		}
	}
	return names
}

func download(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func createURL(baseURL string, pathSegments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse baseURL: %w", err)
	}
	u.Path = strings.Join(pathSegments, "/")
	return u.String(), nil
}
