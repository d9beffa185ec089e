package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/jsonapi"
	"github.com/a-h/pdfrag/models"
)

func New(baseURL string) Client {
	return Client{
		baseURL: baseURL,
	}
}

type Client struct {
	baseURL string
}

type File struct {
	Name string
	Data io.Reader
}

// Upload sends files to be indexed, replacing anything indexed previously.
// On failure, the server's message is returned alongside a
// jsonapi.InvalidStatusError.
func (c Client) Upload(ctx context.Context, files ...File) (msg string, err error) {
	u, err := jsonapi.URL(c.baseURL).Path("upload").String()
	if err != nil {
		return "", err
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err = io.Copy(fw, f.Data); err != nil {
			return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err = mw.Close(); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.text(req)
}

// Ask returns the answer to query. As with Upload, the server's message is
// returned with any error.
func (c Client) Ask(ctx context.Context, query string) (answer string, err error) {
	u, err := jsonapi.URL(c.baseURL).Path("ask").String()
	if err != nil {
		return "", err
	}
	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.text(req)
}

// Context returns the chunks the server would answer query from.
func (c Client) Context(ctx context.Context, query string) (resp models.ContextPostResponse, err error) {
	u, err := jsonapi.URL(c.baseURL).Path("context").String()
	if err != nil {
		return resp, err
	}
	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return resp, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	body, err := c.text(req)
	if err != nil {
		return resp, err
	}
	if err = json.Unmarshal([]byte(body), &resp); err != nil {
		return resp, fmt.Errorf("failed to decode context: %w", err)
	}
	return resp, nil
}

func (c Client) Status(ctx context.Context) (resp models.StatusGetResponse, err error) {
	u, err := jsonapi.URL(c.baseURL).Path("status").String()
	if err != nil {
		return resp, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return resp, fmt.Errorf("failed to create request: %w", err)
	}
	body, err := c.text(req)
	if err != nil {
		return resp, err
	}
	if err = json.Unmarshal([]byte(body), &resp); err != nil {
		return resp, fmt.Errorf("failed to decode status: %w", err)
	}
	return resp, nil
}

func (c Client) text(req *http.Request) (string, error) {
	// jsonapi sets application/json unless told otherwise, which would replace form content types.
	var res *http.Response
	var err error
	if ct := req.Header.Get("Content-Type"); ct != "" {
		res, err = jsonapi.Raw(req, jsonapi.WithContentType(ct))
	} else {
		res, err = jsonapi.Raw(req)
	}
	if err != nil {
		return "", fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return string(body), jsonapi.InvalidStatusError{
			Status: res.StatusCode,
			Body:   string(body),
		}
	}
	return string(body), nil
}
