package newsagent

import (
	"context"
	"errors"
	"log"
	"net"
	"strings"
)

// research runs every planned query against the search provider and admits
// new candidates into the run's accumulation. A candidate is admitted only if
// its URL is absent from both the global seen set and the accumulation, and
// its published date parses and falls inside the lookback window. Unparseable
// dates are logged and rejected.
//
// RetriesExhausted is re-derived each round: it reports whether any query this
// round failed permanently, either by exhausting its retry budget or by
// hitting a non-retryable error.
func (w *Workflow) research(ctx context.Context, run *CategoryRun, seen *SeenURLs) {
	today := dateOnly(w.now())
	start := today.AddDate(0, 0, -(run.LookbackDays - 1))

	inAccumulation := make(map[string]struct{}, len(run.Accumulated))
	for _, c := range run.Accumulated {
		inAccumulation[c.URL] = struct{}{}
	}

	log.Printf("[%s] research round %d: %d queries, window %s to %s, %d accumulated",
		run.Category, run.Iteration, len(run.Queries),
		start.Format("2006-01-02"), today.Format("2006-01-02"), len(run.Accumulated))

	roundFailed := false
	limit := w.newsPerCategory * accumulationFactor

	for _, query := range run.Queries {
		if len(run.Accumulated) >= limit {
			log.Printf("[%s] accumulation reached safety limit (%d), skipping remaining queries this round", run.Category, limit)
			break
		}

		results, err := w.searchWithRetry(ctx, SearchRequest{
			Query:          query,
			IncludeDomains: w.trustedDomains,
			StartDate:      start,
			EndDate:        today,
			MaxResults:     w.resultsPerQuery,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			roundFailed = true
			if !isRetryable(err) {
				// Client-class failure: further queries would fail the
				// same way, so stop the round here.
				log.Printf("[%s] search for %q failed permanently: %v", run.Category, query, err)
				break
			}
			log.Printf("[%s] search for %q exhausted retries: %v", run.Category, query, err)
			continue
		}

		for _, r := range results {
			url := strings.TrimSpace(r.URL)
			if url == "" {
				continue
			}
			if _, dup := inAccumulation[url]; dup || seen.Contains(url) {
				continue
			}
			published, ok := parseDate(r.PublishedDate)
			if !ok {
				log.Printf("[%s] skipping article with unparseable date: %s", run.Category, url)
				continue
			}
			day := dateOnly(published)
			if day.Before(start) || day.After(today) {
				continue
			}
			snippet := strings.TrimSpace(r.Snippet)
			if snippet == "" && w.fetcher != nil {
				if text, ferr := w.fetcher.Fetch(ctx, url); ferr == nil {
					snippet = strings.TrimSpace(text)
				}
			}
			if snippet == "" {
				continue
			}
			headline := strings.TrimSpace(r.Title)
			if headline == "" {
				headline = "No Title Provided"
			}
			run.Accumulated = append(run.Accumulated, Candidate{
				URL:           url,
				Headline:      headline,
				Snippet:       snippet,
				PublishedDate: r.PublishedDate,
			})
			inAccumulation[url] = struct{}{}
		}
	}

	run.RetriesExhausted = roundFailed
	log.Printf("[%s] research round %d done: %d accumulated, retries exhausted=%v",
		run.Category, run.Iteration, len(run.Accumulated), roundFailed)
}

// searchWithRetry issues one query with up to searchAttempts tries.
// Retryable failures back off exponentially between attempts; non-retryable
// failures abort immediately.
func (w *Workflow) searchWithRetry(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	var lastErr error
	for attempt := 0; attempt < searchAttempts; attempt++ {
		results, err := w.searcher.Search(ctx, req)
		if err == nil {
			return results, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
		if attempt+1 < searchAttempts {
			if serr := w.sleepBackoff(ctx, attempt); serr != nil {
				return nil, serr
			}
		}
	}
	return nil, lastErr
}

// isRetryable classifies a search failure. Provider errors that carry their
// own classification win; otherwise network errors count as transient and
// everything else as a client error.
func isRetryable(err error) bool {
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
