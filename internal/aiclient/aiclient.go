// Package aiclient talks to an OpenAI-compatible chat completions endpoint.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4-turbo-preview"
	requestTimeout = 90 * time.Second
)

// Request is one system+user exchange.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// AIClient wraps the HTTP client for the completion service.
type AIClient struct {
	key     string
	model   string
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

// Options configures NewAIClient. Empty fields fall back to defaults.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// NewAIClient creates and returns a new AIClient.
func NewAIClient(opts Options) *AIClient {
	c := &AIClient{
		key:     opts.APIKey,
		model:   opts.Model,
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		http:    opts.HTTPClient,
		log:     opts.Logger,
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 2 * requestTimeout}
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c
}

// Model returns the model name sent with every request.
func (c *AIClient) Model() string { return c.model }

// Complete sends req and returns the text of the first choice.
func (c *AIClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]map[string]string, 0, 2)
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.User})

	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.key)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("completion timeout after %s (model=%s)", requestTimeout, c.model)
		}
		return "", fmt.Errorf("completion request: %s", redactSecrets(err.Error(), c.key))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("completion status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return "", fmt.Errorf("completion status %d: %s", resp.StatusCode, truncate(redactSecrets(string(rb), c.key), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(raw.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return "", err
	}

	c.log.WithFields(logrus.Fields{
		"model":      c.model,
		"latency_ms": time.Since(start).Milliseconds(),
		"chars":      len(content),
	}).Debug("Completion received")
	return content, nil
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return "", errors.New("completion: empty content")
		}
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("completion: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("completion: unexpected content type %T", v)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
