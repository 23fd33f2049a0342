package newsagent

import "time"

const (
	defaultNewsPerCategory = 5
	defaultMaxIterations   = 3
	defaultMaxLookbackDays = 7
	defaultResultsPerQuery = 20
	defaultRetryBaseDelay  = 1 * time.Second

	// searchAttempts bounds retries for one query; analyzerAttempts bounds
	// retries for one candidate's relevance call.
	searchAttempts   = 3
	analyzerAttempts = 2

	// accumulationFactor caps a round's accumulation at N×8 candidates to
	// bound search cost under pathological result volume.
	accumulationFactor = 8

	// maxWorkflowSteps is a circuit breaker on total node executions, well
	// above anything the iteration cap permits. It aborts the run if the
	// routing logic ever misbehaves.
	maxWorkflowSteps = 50
)

// Option configures a Workflow.
type Option func(*Workflow)

// WithSearchProvider sets the search implementation.
func WithSearchProvider(searcher SearchProvider) Option {
	return func(w *Workflow) { w.searcher = searcher }
}

// WithFetchProvider sets the optional article text fetcher used to recover
// snippets for results that came back empty.
func WithFetchProvider(fetcher FetchProvider) Option {
	return func(w *Workflow) { w.fetcher = fetcher }
}

// WithModel sets the free-form model used by the planner, writer, critic,
// refiner, and reviser.
func WithModel(m LLMProvider) Option {
	return func(w *Workflow) { w.model = m }
}

// WithAnalyzerModel sets the JSON-producing model used by the relevance
// analyzer.
func WithAnalyzerModel(m StructuredProvider) Option {
	return func(w *Workflow) { w.analyzer = m }
}

// WithHallucinationChecker enables the hallucination check on digest drafts.
func WithHallucinationChecker(c HallucinationChecker) Option {
	return func(w *Workflow) { w.checker = c }
}

// WithNewsPerCategory sets the digest item target N.
func WithNewsPerCategory(n int) Option {
	return func(w *Workflow) {
		if n > 0 {
			w.newsPerCategory = n
		}
	}
}

// WithMaxIterations sets the research round budget per category.
func WithMaxIterations(n int) Option {
	return func(w *Workflow) {
		if n > 0 {
			w.maxIterations = n
		}
	}
}

// WithMaxLookbackDays caps how far the refiner may widen the date window.
func WithMaxLookbackDays(n int) Option {
	return func(w *Workflow) {
		if n > 0 {
			w.maxLookbackDays = n
		}
	}
}

// WithResultsPerQuery caps how many results one search call may return.
func WithResultsPerQuery(n int) Option {
	return func(w *Workflow) {
		if n > 0 {
			w.resultsPerQuery = n
		}
	}
}

// WithTrustedDomains sets the domain allow-list passed to the search provider.
func WithTrustedDomains(domains []string) Option {
	return func(w *Workflow) { w.trustedDomains = domains }
}

// WithInstruments sets the reference instrument list text used by the planner
// and the relevance analyzer.
func WithInstruments(text string) Option {
	return func(w *Workflow) { w.instruments = text }
}

// WithPrinciples sets the investment principles text included in the plan
// prompt.
func WithPrinciples(text string) Option {
	return func(w *Workflow) { w.principles = text }
}

// WithRetryBaseDelay overrides the base backoff delay for search and analyzer
// retries.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(w *Workflow) {
		if d > 0 {
			w.retryBaseDelay = d
		}
	}
}

// WithDebug enables debug logging of all prompts and responses.
func WithDebug(enabled bool) Option {
	return func(w *Workflow) { w.debug = enabled }
}
