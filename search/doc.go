// Package search provides the search provider implementation for the news
// research workflow.
//
// Exa is the only built-in provider. It supports a domain allow-list, a
// publication-date window, and a per-call result cap:
//
//	provider := search.NewExa(os.Getenv("EXA_API_KEY"))
//	results, err := provider.Search(ctx, newsagent.SearchRequest{
//	    Query:          "tanker rates atlantic basin",
//	    IncludeDomains: []string{"tradewindsnews.com", "lloydslist.com"},
//	    StartDate:      start,
//	    EndDate:        today,
//	    MaxResults:     20,
//	})
//
// Providers perform exactly one attempt per call; the workflow owns the retry
// policy and classifies failures through the newsagent.RetryableError
// interface, which StatusError implements.
//
// Implement the newsagent.SearchProvider interface to add another backend.
package search
