package newsagent

import (
	"context"
	"fmt"
	"log"
)

// plan asks the model for a research plan and extracts the search queries
// from it. The planner never leaves the run without queries: when none can be
// extracted (or the model call fails), a deterministic default query built
// from the category and today's date is used instead.
func (w *Workflow) plan(ctx context.Context, run *CategoryRun) {
	today := dateOnly(w.now()).Format("2006-01-02")
	user := buildPlannerUserPrompt(run.Category, w.instruments, w.principles, w.newsPerCategory, today, w.trustedDomains)
	w.debugf("[%s] planner prompt:\n%s", run.Category, user)

	resp, err := w.model.Generate(ctx, plannerSystemPrompt, user)
	if err != nil {
		log.Printf("[%s] planner call failed: %v", run.Category, err)
	} else {
		run.Plan = resp.Text
		run.Cost += resp.Cost
		w.debugf("[%s] planner response:\n%s", run.Category, resp.Text)
	}

	queries := extractPlannedQueries(run.Plan)
	if len(queries) == 0 {
		queries = []string{fmt.Sprintf("latest top %s news %s", run.Category, today)}
		log.Printf("[%s] plan yielded no queries, using default: %q", run.Category, queries[0])
	}
	run.Queries = queries
	log.Printf("[%s] planned queries: %v", run.Category, run.Queries)
}
