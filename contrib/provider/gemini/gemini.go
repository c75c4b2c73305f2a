package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	errorskg "github.com/sweetpotato0/ai-uigen/errors"
)

const (
	// DefaultBaseURL is the public Generative Language API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel supports responseSchema.
	DefaultModel = "gemini-2.5-flash-preview-05-20"
	// DefaultTimeout bounds a single generateContent call.
	DefaultTimeout = 120 * time.Second

	maxErrorBody = 512
)

// Config holds Gemini provider configuration
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns default Gemini configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:  apiKey,
		Model:   DefaultModel,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		if client != nil {
			p.client = client
		}
	}
}

// Provider sends structured generation requests to one Gemini model.
type Provider struct {
	config *Config
	client *http.Client
}

// New creates a new Gemini provider
func New(config *Config, opts ...Option) *Provider {
	if config == nil {
		config = DefaultConfig("")
	}
	cfg := *config
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	p := &Provider{
		config: &cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Model returns the configured model name.
func (p *Provider) Model() string {
	return p.config.Model
}

// Endpoint returns the generateContent URL without the credential.
func (p *Provider) Endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", p.config.BaseURL, p.config.Model)
}

func (p *Provider) requestURL() string {
	return p.Endpoint() + "?key=" + url.QueryEscape(p.config.APIKey)
}

// Send posts the payload once and decodes the response envelope.
// Transport failures and non-2xx statuses return *errors.TransportError; an
// undecodable body returns errors.ErrUnexpectedResponseShape.
func (p *Provider) Send(ctx context.Context, payload *Payload) (*Envelope, error) {
	if p.config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured")
	}
	if payload == nil {
		return nil, fmt.Errorf("payload cannot be nil")
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.requestURL(), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &errorskg.TransportError{Err: redactKey(err, p.config.APIKey)}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &errorskg.TransportError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Err:        fmt.Errorf("failed to read response: %w", err),
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &errorskg.TransportError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Body:       truncate(strings.TrimSpace(string(respBody)), maxErrorBody),
		}
	}

	var env Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errorskg.ErrUnexpectedResponseShape, err)
	}
	return &env, nil
}

// redactKey keeps the credential out of *url.Error messages, which embed the
// full request URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := err.Error()
	escaped := url.QueryEscape(key)
	if !strings.Contains(msg, escaped) && !strings.Contains(msg, key) {
		return err
	}
	msg = strings.ReplaceAll(msg, escaped, "REDACTED")
	return fmt.Errorf("%s", strings.ReplaceAll(msg, key, "REDACTED"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
