// Package newsagent implements an iterative research-and-digest workflow: it
// turns a news category into a vetted, citation-bearing digest plus a full
// evidentiary corpus by repeatedly planning search queries, fetching candidate
// articles, classifying their relevance against a reference instrument list,
// selecting and deduplicating the best candidates, drafting a digest, and
// critiquing the draft against quality rules before finalizing.
//
// # Architecture
//
// Each category runs through an explicit bounded state machine:
//
//	Plan → Research → Analyze → Select → Write → HallucinationCheck → Critique
//	                                                  │
//	                       ┌──────────────────────────┤
//	                       ▼                          ▼
//	                 Refine → Research (loop)      Revise (terminal)
//
//  1. The planner proposes search queries for the category.
//  2. Research runs every query against the search provider with a domain
//     allow-list and a recency window, retrying transient failures with
//     exponential backoff, and accumulates candidates with unique URLs.
//  3. The analyzer classifies each candidate's relevance to the instrument
//     list through a JSON-producing model.
//  4. The selector keeps the newest relevant candidates up to the target
//     count, claiming their URLs in a cross-category seen set.
//  5. The writer drafts the digest from the selected candidates and
//     serializes the full accumulation into the raw corpus.
//  6. The critic evaluates the draft; a selection short of the target always
//     forces a needs-more-research verdict.
//  7. Only an explicit deficiency with remaining iteration budget re-enters
//     the loop through the refiner, which rewrites the queries and widens the
//     date window by one day. Every other outcome finalizes through the
//     reviser, which rewrites the draft against the corpus as ground truth.
//
// # Basic Usage
//
//	wf := newsagent.New(
//	    newsagent.WithSearchProvider(search.NewExa(apiKey)),
//	    newsagent.WithModel(model),
//	    newsagent.WithAnalyzerModel(analyzer),
//	    newsagent.WithTrustedDomains(domains),
//	    newsagent.WithNewsPerCategory(5),
//	)
//
//	seen := newsagent.NewSeenURLs()
//	result, err := wf.Run(ctx, "Shipping", seen)
//	fmt.Println(result.Digest)
//
// The Runner drives a Workflow across many categories sequentially with
// crash-resume through a checkpoint store; see NewRunner and the checkpoint
// package.
//
// # Interfaces
//
// Implement LLMProvider to connect any language model:
//
//	type LLMProvider interface {
//	    Generate(ctx context.Context, systemPrompt, userPrompt string) (LLMResponse, error)
//	}
//
// The relevance analyzer uses a separate JSON-producing client:
//
//	type StructuredProvider interface {
//	    GenerateJSON(ctx context.Context, prompt string) (LLMResponse, error)
//	}
//
// Implement SearchProvider to use any search backend; providers perform one
// attempt per call and report their retry classification through
// RetryableError.
package newsagent
