package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adaptlearn/adaptlearn-backend/internal/platform/envutil"
	"github.com/adaptlearn/adaptlearn-backend/internal/platform/logger"
)

// Client is the generation capability consumed by the agent layer.
type Client interface {
	// GenerateText returns plain text for a system+user prompt pair.
	GenerateText(ctx context.Context, system string, user string) (string, error)

	// GenerateJSON requests structured output constrained by a JSON schema
	// and returns the decoded object.
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
}

// ErrUnavailable wraps transport-level failures (timeouts, 5xx,
// rate-limit exhaustion) so callers can distinguish "the model is down"
// from "the model answered garbage".
var ErrUnavailable = errors.New("generation unavailable")

type client struct {
	log *logger.Logger

	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	maxRetries  int

	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	baseURL := envutil.String("OPENAI_BASE_URL", "https://api.openai.com")
	baseURL = strings.TrimRight(baseURL, "/")

	temp := 0.3
	if v := strings.TrimSpace(os.Getenv("OPENAI_TEMPERATURE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			temp = f
		}
	}

	return &client{
		log:         log.With("service", "OpenAIClient"),
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       envutil.String("OPENAI_MODEL", "gpt-4o"),
		maxTokens:   envutil.Int("OPENAI_MAX_TOKENS", 1500),
		temperature: temp,
		maxRetries:  envutil.Int("OPENAI_MAX_RETRIES", 2),
		httpClient: &http.Client{
			Timeout: envutil.DurationSeconds("OPENAI_TIMEOUT_SECONDS", 30*time.Second),
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat any           `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	return c.complete(ctx, req)
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	req := chatRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schemaName,
				"strict": true,
				"schema": schema,
			},
		},
	}
	raw, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode structured output: %w", err)
	}
	return out, nil
}

func (c *client) complete(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	backoff := 1 * time.Second
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			c.log.Warn("Generation request failed", "attempt", attempt, "error", err)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
			if d := retryAfter(resp); d > 0 {
				backoff = d
			}
			c.log.Warn("Generation request retrying", "attempt", attempt, "status", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("generation request rejected: status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
		}

		var parsed chatResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if parsed.Error != nil {
			return "", fmt.Errorf("generation error: %s", parsed.Error.Message)
		}
		if len(parsed.Choices) == 0 {
			return "", fmt.Errorf("generation response had no choices")
		}
		return parsed.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func retryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > 10*time.Second {
		d = 10 * time.Second
	}
	return d
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
