package newsagent

import (
	"context"
	"encoding/json"
	"log"
	"strings"
)

const maxAffectedInstruments = 5

type analyzerVerdict struct {
	IsRelevant          string   `json:"is_relevant"`
	AffectedInstruments []string `json:"affected_instruments"`
}

// analyze asks the structured model, for each accumulated candidate, whether
// the article relates to any instrument in the reference list. Decode
// failures retry once with backoff; after that the candidate defaults to
// not-relevant with no instruments. Candidates are never dropped here — an
// irrelevant candidate is only excluded from selection, not from the corpus.
func (w *Workflow) analyze(ctx context.Context, run *CategoryRun) {
	log.Printf("[%s] analyzing %d candidates for instrument relevance", run.Category, len(run.Accumulated))

	for i := range run.Accumulated {
		if ctx.Err() != nil {
			return
		}
		c := &run.Accumulated[i]
		// Re-analysis after another research round starts from a clean slate.
		c.Relevant = false
		c.AffectedInstruments = nil

		prompt := buildAnalyzerPrompt(*c, w.instruments)
		for attempt := 0; attempt < analyzerAttempts; attempt++ {
			resp, err := w.analyzer.GenerateJSON(ctx, prompt)
			if err == nil {
				run.Cost += resp.Cost
				if verdict, ok := decodeVerdict(resp.Text); ok {
					c.Relevant = strings.EqualFold(strings.TrimSpace(verdict.IsRelevant), "YES")
					instruments := verdict.AffectedInstruments
					if len(instruments) > maxAffectedInstruments {
						instruments = instruments[:maxAffectedInstruments]
					}
					c.AffectedInstruments = instruments
					break
				}
				log.Printf("[%s] undecodable analyzer response for %s (attempt %d/%d)",
					run.Category, c.URL, attempt+1, analyzerAttempts)
			} else {
				log.Printf("[%s] analyzer call failed for %s (attempt %d/%d): %v",
					run.Category, c.URL, attempt+1, analyzerAttempts, err)
			}
			if attempt+1 < analyzerAttempts {
				if serr := w.sleepBackoff(ctx, attempt); serr != nil {
					return
				}
			}
		}
	}
}

func decodeVerdict(raw string) (analyzerVerdict, bool) {
	payload := extractJSON(raw)
	if payload == "" {
		return analyzerVerdict{}, false
	}
	var v analyzerVerdict
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return analyzerVerdict{}, false
	}
	return v, true
}
