package criteria

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StoryInput carries the story fields the generator prompts with.
type StoryInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	Priority       string   `json:"priority,omitempty"`
}

// Generator produces acceptance criteria for a story. The hosted
// completion endpoint is an opaque external collaborator; failures
// surface as errors, never retried beyond the configured attempts.
type Generator interface {
	Generate(ctx context.Context, story StoryInput) ([]string, error)
}

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
}

type HTTPClient struct {
	opts       Options
	httpClient *http.Client
}

func NewHTTPClient(opts Options) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	return &HTTPClient{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *HTTPClient) Generate(ctx context.Context, story StoryInput) ([]string, error) {
	if story.Title == "" {
		return nil, fmt.Errorf("story title required")
	}

	body := chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(story)},
		},
		Temperature: 0.3,
		MaxTokens:   800,
	}

	var lastErr error
	for i := 0; i < c.opts.MaxAttempts; i++ {
		text, err := c.doRequest(ctx, body)
		if err == nil {
			items := ParseCriteria(text)
			if len(items) == 0 {
				return nil, fmt.Errorf("completion contained no criteria")
			}
			return items, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("generate acceptance criteria: %w", lastErr)
}

func (c *HTTPClient) doRequest(ctx context.Context, body chatRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("completion endpoint: %d %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
