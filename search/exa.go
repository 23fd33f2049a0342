package search

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

	"newsagent"
)

const defaultExaEndpoint = "https://api.exa.ai/search"

// snippetMaxCharacters caps the article text requested per result so prompts
// stay bounded.
const snippetMaxCharacters = 5000

// StatusError is a non-2xx search response. Rate limiting and server-class
// failures are retryable; other client-class failures are not.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("exa http %d", e.Code)
	}
	return fmt.Sprintf("exa http %d: %s", e.Code, e.Body)
}

// Retryable classifies the failure for the caller's retry policy.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Exa calls the Exa search API with domain and publication-date filtering.
type Exa struct {
	APIKey string
	// Endpoint overrides the API URL; empty means the production endpoint.
	Endpoint string
	client   *http.Client
}

// NewExa constructs an Exa search provider.
func NewExa(apiKey string) *Exa {
	return &Exa{APIKey: apiKey, client: &http.Client{Timeout: 10 * time.Second}}
}

// NewExaWithClient constructs an Exa search provider using the supplied HTTP
// client. This is useful for overriding the default timeout.
func NewExaWithClient(apiKey string, client *http.Client) *Exa {
	return &Exa{APIKey: apiKey, client: client}
}

type exaResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate"`
	Text          string `json:"text"`
}

// Search posts one query to Exa. It performs exactly one attempt; the caller
// owns retries and uses StatusError.Retryable to classify failures.
func (e *Exa) Search(ctx context.Context, req newsagent.SearchRequest) ([]newsagent.SearchResult, error) {
	if strings.TrimSpace(e.APIKey) == "" {
		return nil, errors.New("exa: API key is missing")
	}

	body := map[string]any{
		"query":         req.Query,
		"type":          "auto",
		"useAutoprompt": true,
		"contents": map[string]any{
			"text": map[string]any{"maxCharacters": snippetMaxCharacters},
		},
	}
	if req.MaxResults > 0 {
		body["numResults"] = req.MaxResults
	}
	if len(req.IncludeDomains) > 0 {
		body["includeDomains"] = req.IncludeDomains
	}
	if !req.StartDate.IsZero() {
		body["startPublishedDate"] = req.StartDate.Format("2006-01-02")
	}
	if !req.EndDate.IsZero() {
		body["endPublishedDate"] = req.EndDate.Format("2006-01-02")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := e.Endpoint
	if endpoint == "" {
		endpoint = defaultExaEndpoint
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", e.APIKey)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(errBody))}
	}

	var response struct {
		Results []exaResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	results := make([]newsagent.SearchResult, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, newsagent.SearchResult{
			Title:         r.Title,
			URL:           r.URL,
			Snippet:       strings.TrimSpace(r.Text),
			PublishedDate: r.PublishedDate,
		})
		if req.MaxResults > 0 && len(results) >= req.MaxResults {
			break
		}
	}
	return results, nil
}
