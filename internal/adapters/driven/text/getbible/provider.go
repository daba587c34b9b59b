// Package getbible implements a primary text provider over the getBible v2
// JSON API (https://api.getbible.net/v2/<translation>/<book>/<chapter>.json).
package getbible

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.PrimaryTextProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.getbible.net/v2"
	DefaultTranslation = "arabicsv"
	DefaultTimeout     = 30 * time.Second

	providerName = "getbible"
)

// Config holds configuration for the provider.
type Config struct {
	// BaseURL is the API root (default: https://api.getbible.net/v2).
	BaseURL string

	// Translation is the edition abbreviation (default: arabicsv).
	Translation string

	// RequestsPerSecond caps outgoing requests. Zero means unlimited.
	RequestsPerSecond float64

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// HTTPClient overrides the client. Optional.
	HTTPClient *http.Client
}

// Provider fetches chapters from the getBible API.
type Provider struct {
	client      *http.Client
	baseURL     string
	translation string
	limiter     *RateLimiter
}

type chapterResponse struct {
	BookNr  int     `json:"book_nr"`
	Chapter int     `json:"chapter"`
	Verses  []verse `json:"verses"`
}

type verse struct {
	Verse int    `json:"verse"`
	Text  string `json:"text"`
}

// New creates a provider.
func New(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Translation == "" {
		cfg.Translation = DefaultTranslation
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Provider{
		client:      client,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		translation: cfg.Translation,
		limiter:     NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return providerName }

// FetchChapter retrieves one chapter. address is the canonical book number.
func (p *Provider) FetchChapter(ctx context.Context, address string, chapter int) ([]domain.SourceVerse, error) {
	book, err := strconv.Atoi(address)
	if err != nil || book < 1 || chapter < 1 {
		return nil, p.fail(fmt.Errorf("%w: address %q chapter %d", domain.ErrInvalidInput, address, chapter))
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, p.fail(err)
	}

	url := fmt.Sprintf("%s/%s/%d/%d.json", p.baseURL, p.translation, book, chapter)
	logger.Debug("getbible: GET %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, p.fail(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.fail(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, p.fail(domain.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		p.limiter.Backoff(retryAfter(resp.Header.Get("Retry-After")))
		return nil, p.fail(fmt.Errorf("rate limited (status 429)"))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, p.fail(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var payload chapterResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, p.fail(fmt.Errorf("%w: %v", domain.ErrMalformed, err))
	}

	verses := make([]domain.SourceVerse, 0, len(payload.Verses))
	for _, v := range payload.Verses {
		verses = append(verses, domain.SourceVerse{Number: v.Verse, Text: v.Text})
	}
	return verses, nil
}

func (p *Provider) fail(err error) error {
	return domain.NewProviderError(providerName, "fetch", err)
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
