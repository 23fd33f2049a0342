// Package llm provides OpenAI-compatible chat completion clients for the
// news research workflow. They work with any server exposing the
// /v1/chat/completions endpoint (OpenAI, Ollama /v1, vLLM, LiteLLM, etc.).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"newsagent"
)

const (
	requestTimeout = 10 * time.Minute
	maxRetries     = 5
	baseDelay      = 1 * time.Second
)

// OpenAI implements newsagent.LLMProvider against a chat-completions server.
type OpenAI struct {
	Endpoint string // base URL, e.g. https://api.openai.com or an /v1 proxy
	Model    string
	APIKey   string // optional; leave empty for keyless servers

	// PromptCostPer1K and CompletionCostPer1K price the model's tokens in
	// dollars. When zero, calls report zero cost.
	PromptCostPer1K     float64
	CompletionCostPer1K float64

	client *http.Client
}

// NewOpenAI constructs a client with a generous timeout so large-model
// requests do not hang indefinitely but still have time to generate.
func NewOpenAI(endpoint, model, apiKey string) *OpenAI {
	return &OpenAI{
		Endpoint: endpoint,
		Model:    model,
		APIKey:   apiKey,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Stream         bool           `json:"stream"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Generate sends a system+user message pair and returns the completion.
func (o *OpenAI) Generate(ctx context.Context, systemPrompt, userPrompt string) (newsagent.LLMResponse, error) {
	return o.complete(ctx, chatRequest{
		Model: o.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
}

func (o *OpenAI) complete(ctx context.Context, reqBody chatRequest) (newsagent.LLMResponse, error) {
	body, err := o.doRequestWithRetries(ctx, reqBody)
	if err != nil {
		return newsagent.LLMResponse{}, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return newsagent.LLMResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return newsagent.LLMResponse{}, fmt.Errorf("response contained no choices")
	}

	cost := float64(parsed.Usage.PromptTokens)/1000*o.PromptCostPer1K +
		float64(parsed.Usage.CompletionTokens)/1000*o.CompletionCostPer1K
	return newsagent.LLMResponse{
		Text: strings.TrimSpace(parsed.Choices[0].Message.Content),
		Cost: cost,
	}, nil
}

func (o *OpenAI) doRequestWithRetries(ctx context.Context, reqBody chatRequest) ([]byte, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := completionsURL(o.Endpoint)
	client := o.client
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}

	for i := 0; ; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if o.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+o.APIKey)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to send request: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read response: %w", err)
			}
			return body, nil
		}

		errBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusGatewayTimeout
		if !retryable || i >= maxRetries {
			return nil, fmt.Errorf("llm API error: %s - %s", resp.Status, string(errBody))
		}

		delay := baseDelay * time.Duration(1<<i)
		log.Printf("[llm] got %s, retrying in %v", resp.Status, delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// completionsURL appends /v1/chat/completions unless the endpoint already
// points at it.
func completionsURL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	url := strings.TrimRight(endpoint, "/")
	if strings.HasSuffix(url, "/chat/completions") {
		return url
	}
	if !strings.HasSuffix(url, "/v1") {
		url += "/v1"
	}
	return url + "/chat/completions"
}

// OpenAIJSON is the structured-output variant: it requests a JSON object
// response and satisfies newsagent.StructuredProvider.
type OpenAIJSON struct {
	OpenAI
}

// NewOpenAIJSON constructs a JSON-mode client.
func NewOpenAIJSON(endpoint, model, apiKey string) *OpenAIJSON {
	return &OpenAIJSON{OpenAI: *NewOpenAI(endpoint, model, apiKey)}
}

// GenerateJSON sends a single user prompt with JSON response formatting.
// Some servers ignore response_format and fence the object in markdown; the
// workflow's extraction handles both shapes.
func (o *OpenAIJSON) GenerateJSON(ctx context.Context, prompt string) (newsagent.LLMResponse, error) {
	return o.complete(ctx, chatRequest{
		Model:          o.Model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: map[string]any{"type": "json_object"},
	})
}
