package newsagent

import (
	"context"
	"time"
)

// SearchResult is a single item returned by a SearchProvider.
type SearchResult struct {
	Title         string
	URL           string
	Snippet       string
	PublishedDate string
}

// SearchRequest describes one provider call: the query plus the domain
// allow-list, the publication date window, and the result cap.
type SearchRequest struct {
	Query          string
	IncludeDomains []string
	StartDate      time.Time
	EndDate        time.Time
	MaxResults     int
}

// SearchProvider executes a single search attempt. Retry policy lives in the
// workflow, so implementations should return a classified error (see
// RetryableError) rather than retrying themselves.
type SearchProvider interface {
	Search(ctx context.Context, req SearchRequest) ([]SearchResult, error)
}

// RetryableError is implemented by provider errors that carry their own
// retry classification. Errors that do not implement it are treated as
// retryable only when they are network errors.
type RetryableError interface {
	error
	Retryable() bool
}

// FetchProvider retrieves raw text for a URL. It is optional: when configured,
// the research step uses it to recover article text for results that came back
// without a snippet.
type FetchProvider interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// LLMResponse is returned by LLMProvider.Generate and carries both the
// generated text and the cost (in dollars) of the call.
type LLMResponse struct {
	Text string
	Cost float64
}

// LLMProvider is implemented by user-supplied language model clients.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (LLMResponse, error)
}

// StructuredProvider is a JSON-producing model client used by the relevance
// analyzer. The response text is expected to contain a single JSON object,
// possibly wrapped in a fenced code block.
type StructuredProvider interface {
	GenerateJSON(ctx context.Context, prompt string) (LLMResponse, error)
}

// Flag marks one claim in a digest draft as unsupported by the research.
type Flag struct {
	Claim      string  `json:"claim"`
	Reason     string  `json:"reason,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// HallucinationChecker scans a digest draft for unsupported claims.
// A nil checker disables the check entirely.
type HallucinationChecker interface {
	Detect(ctx context.Context, digest string) ([]Flag, error)
}

// CategoryResult is returned by Workflow.Run and carries the final digest, the
// full raw corpus, the candidates that were cited, and the total cost
// accumulated during the run.
type CategoryResult struct {
	Category string
	Digest   string
	Corpus   string
	Selected []Candidate
	Cost     float64
}
