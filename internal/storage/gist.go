package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	gistAPIBase    = "https://api.github.com/gists"
	gistAPIVersion = "2022-11-28"

	// DefaultGistTimeout bounds every Gist call. On expiry the catalog
	// store falls back to the local file instead of hanging the caller.
	DefaultGistTimeout = 15 * time.Second
)

// GistConfig encapsulates the GitHub Gist connection info.
type GistConfig struct {
	GistID   string
	Token    string
	Filename string
	Timeout  time.Duration
}

// GistClient implements RemoteStore on top of a single GitHub Gist file.
// After an authentication failure the client disables itself for the rest
// of the session so repeated calls fail fast instead of hammering the API.
type GistClient struct {
	cfg      GistConfig
	client   *http.Client
	baseURL  string
	disabled atomic.Bool
}

type gistFile struct {
	Content string `json:"content"`
}

type gistDocument struct {
	Files map[string]gistFile `json:"files"`
}

// NewGistClient builds a Gist-backed remote store.
func NewGistClient(cfg GistConfig) (*GistClient, error) {
	if cfg.GistID == "" {
		return nil, fmt.Errorf("gist id must be provided")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("gist token must be provided")
	}
	if cfg.Filename == "" {
		cfg.Filename = "catalog.json"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGistTimeout
	}

	return &GistClient{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: gistAPIBase,
	}, nil
}

// Get fetches the named file from the Gist. The key selects the filename
// within the Gist; an empty key uses the configured default.
func (c *GistClient) Get(ctx context.Context, key string) ([]byte, error) {
	if c.disabled.Load() {
		return nil, &AuthError{Backend: "gist", Status: http.StatusUnauthorized}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gistURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("gist request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gist fetch: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp.StatusCode, "fetch"); err != nil {
		return nil, err
	}

	var doc gistDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("gist decode: %w", err)
	}

	file, ok := doc.Files[c.filename(key)]
	if !ok || file.Content == "" {
		return nil, ErrNotFound
	}

	return []byte(file.Content), nil
}

// Put writes data to the named file in the Gist via a PATCH request.
func (c *GistClient) Put(ctx context.Context, key string, data []byte) error {
	if c.disabled.Load() {
		return &AuthError{Backend: "gist", Status: http.StatusUnauthorized}
	}

	body, err := json.Marshal(gistDocument{
		Files: map[string]gistFile{
			c.filename(key): {Content: string(data)},
		},
	})
	if err != nil {
		return fmt.Errorf("gist encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.gistURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gist request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gist save: %w", err)
	}
	defer resp.Body.Close()

	return c.checkStatus(resp.StatusCode, "save")
}

func (c *GistClient) gistURL() string {
	return c.baseURL + "/" + c.cfg.GistID
}

func (c *GistClient) filename(key string) string {
	if key == "" {
		return c.cfg.Filename
	}
	return key
}

func (c *GistClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Api-Version", gistAPIVersion)
	req.Header.Set("Authorization", "token "+c.cfg.Token)
}

func (c *GistClient) checkStatus(status int, op string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusNotFound:
		c.disabled.Store(true)
		log.Warn().Int("status", status).Str("op", op).Msg("gist disabled for this session after auth failure")
		return &AuthError{Backend: "gist", Status: status}
	case status >= 400:
		return fmt.Errorf("gist %s failed (HTTP %d)", op, status)
	}
	return nil
}

var _ RemoteStore = (*GistClient)(nil)
