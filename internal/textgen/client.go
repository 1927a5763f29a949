// Package textgen drafts and polishes notice text with the Gemini API.
//
// Every call degrades to returning its input unchanged: a missing API key,
// transport errors, error statuses and empty answers are logged and never
// reach the caller.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/campuscast/internal/metrics"
)

// Gemini API defaults.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 20 * time.Second
)

// Operation labels used in logs and metrics.
const (
	OpGenerate = "generate"
	OpRefine   = "refine"
)

// Tone of a drafted notice.
type Tone string

const (
	ToneFormal   Tone = "formal"
	ToneExciting Tone = "exciting"
	ToneUrgent   Tone = "urgent"
)

// Valid reports whether t is a known tone.
func (t Tone) Valid() bool {
	return t == ToneFormal || t == ToneExciting || t == ToneUrgent
}

var errNoAPIKey = errors.New("no api key configured")

// Config configures a Client.
type Config struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Client calls the generateContent endpoint.
type Client struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client. Empty config fields take the defaults.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// GeneratePrompt builds the drafting prompt.
func GeneratePrompt(topic string, tone Tone) string {
	return fmt.Sprintf("Write a short, clear digital signage notice for a college campus about: %q. "+
		"The tone should be %s. Keep it under 20 words. Do not include quotes.", topic, tone)
}

// RefinePrompt builds the polishing prompt.
func RefinePrompt(text string) string {
	return fmt.Sprintf("Rewrite this text to be more professional and concise for a TV display: %q", text)
}

// Generate drafts a notice about topic. On failure it returns topic.
func (c *Client) Generate(ctx context.Context, topic string, tone Tone) string {
	if !tone.Valid() {
		tone = ToneFormal
	}
	return c.run(ctx, OpGenerate, topic, GeneratePrompt(topic, tone))
}

// Refine rewrites text for a TV display. On failure it returns text.
func (c *Client) Refine(ctx context.Context, text string) string {
	return c.run(ctx, OpRefine, text, RefinePrompt(text))
}

func (c *Client) run(ctx context.Context, op, input, prompt string) string {
	if strings.TrimSpace(input) == "" {
		return input
	}

	out, err := c.complete(ctx, prompt)
	if err != nil {
		metrics.IncTextgen(op, metrics.ResultError)
		c.log.Warn().Err(err).Str("op", op).Msg("text generation failed, keeping original text")
		return input
	}

	metrics.IncTextgen(op, metrics.ResultSuccess)
	return out
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// complete sends one prompt and returns the trimmed text of the first candidate.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", errNoAPIKey
	}

	data, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate failed with status %d: %s", resp.StatusCode, string(body))
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.Trim(strings.TrimSpace(sb.String()), `"`)
	if text == "" {
		return "", errors.New("empty response text")
	}
	return text, nil
}
