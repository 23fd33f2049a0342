package newsagent

import (
	"context"
	"fmt"
	"log"
)

// checkHallucinations runs the optional checker over the digest draft.
// Without a configured checker, or when the checker fails, the run carries no
// flags — the check degrades, it never blocks the workflow.
func (w *Workflow) checkHallucinations(ctx context.Context, run *CategoryRun) {
	run.Hallucinations = nil
	if w.checker == nil || run.Digest == "" {
		return
	}
	flags, err := w.checker.Detect(ctx, run.Digest)
	if err != nil {
		log.Printf("[%s] hallucination check failed: %v", run.Category, err)
		return
	}
	run.Hallucinations = flags
	log.Printf("[%s] hallucination check flagged %d claims", run.Category, len(flags))
}

// critique evaluates the digest draft and records a status plus actionable
// notes. Whatever the model's own verdict, a selection short of the target
// forces the status to needs-more-research with an explicit shortage note
// prepended — quality cannot excuse a shortfall.
func (w *Workflow) critique(ctx context.Context, run *CategoryRun) {
	today := dateOnly(w.now()).Format("2006-01-02")
	user := buildCriticUserPrompt(run.Category, w.newsPerCategory, today, run.Digest, run.Hallucinations)
	w.debugf("[%s] critic prompt:\n%s", run.Category, user)

	var status Status
	var notes []string
	resp, err := w.model.Generate(ctx, criticSystemPrompt, user)
	if err != nil {
		log.Printf("[%s] critic call failed: %v", run.Category, err)
		status = StatusNeedsMoreResearch
		notes = []string{"Critique unavailable; the draft could not be verified against the quality criteria."}
	} else {
		run.Cost += resp.Cost
		status, notes = parseCritique(resp.Text)
	}

	if len(run.Selected) < w.newsPerCategory {
		shortage := fmt.Sprintf("Underlying instrument-relevant research provided only %d articles for the digest; target was %d.",
			len(run.Selected), w.newsPerCategory)
		if len(notes) == 0 || notes[0] != shortage {
			notes = append([]string{shortage}, notes...)
		}
		if status != StatusNeedsMoreResearch {
			log.Printf("[%s] forcing critique to %s: %d/%d articles selected",
				run.Category, StatusNeedsMoreResearch, len(run.Selected), w.newsPerCategory)
			status = StatusNeedsMoreResearch
		}
	}

	run.CritiqueStatus = status
	run.CritiqueNotes = notes
	log.Printf("[%s] critique status: %s (%d notes)", run.Category, status, len(notes))
}
