package newsagent

import (
	"context"
	"log"
)

const maxRefinedQueries = 3

// refine asks the model for replacement queries based on the critique and
// widens the lookback window by one day, capped at the configured maximum.
// When no queries can be extracted (or the call fails), the prior queries are
// reused — the window still widens, so the next round is not a pure repeat.
func (w *Workflow) refine(ctx context.Context, run *CategoryRun) {
	previous := run.LookbackDays
	if run.LookbackDays < w.maxLookbackDays {
		run.LookbackDays++
	}
	log.Printf("[%s] refining: lookback %d -> %d days (max %d)", run.Category, previous, run.LookbackDays, w.maxLookbackDays)

	today := dateOnly(w.now()).Format("2006-01-02")
	user := buildRefinerUserPrompt(run.Category, today, run.CritiqueNotes, run.Queries)
	w.debugf("[%s] refiner prompt:\n%s", run.Category, user)

	resp, err := w.model.Generate(ctx, refinerSystemPrompt, user)
	if err != nil {
		log.Printf("[%s] refiner call failed, reusing prior queries: %v", run.Category, err)
		return
	}
	run.Cost += resp.Cost

	queries := extractBullets(resp.Text)
	if len(queries) == 0 {
		log.Printf("[%s] refiner yielded no queries, reusing prior ones", run.Category)
		return
	}
	if len(queries) > maxRefinedQueries {
		queries = queries[:maxRefinedQueries]
	}
	run.Queries = queries
	log.Printf("[%s] refined queries: %v", run.Category, run.Queries)
}
