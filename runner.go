package newsagent

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"newsagent/checkpoint"
)

// Runner drives one Workflow across a list of categories, sequentially, with
// crash-resume through a checkpoint store. Category failures are isolated: a
// failed category gets an error-marker digest and corpus, and the execution
// moves on to the next one.
type Runner struct {
	wf         *Workflow
	store      checkpoint.Store
	categories []string
}

// NewRunner builds a runner over the given workflow and store.
func NewRunner(wf *Workflow, store checkpoint.Store, categories []string) *Runner {
	return &Runner{wf: wf, store: store, categories: categories}
}

// Run processes every category not already completed in the stored
// checkpoint. Completed categories are skipped without touching their stored
// digest or corpus. The checkpoint is saved after each category so a crash
// loses at most the category in flight.
func (r *Runner) Run(ctx context.Context) (checkpoint.Checkpoint, error) {
	cp, err := r.store.Load(ctx)
	if err != nil {
		log.Printf("checkpoint load failed, starting fresh: %v", err)
		cp = checkpoint.New()
	}
	cp.Init()
	cp.RunID = uuid.NewString()
	log.Printf("execution %s: %d categories, %d already checkpointed, %d seen URLs",
		cp.RunID, len(r.categories), len(cp.Digests), len(cp.SeenURLs))

	seen := NewSeenURLs(cp.SeenURLs...)

	for _, category := range r.categories {
		if err := ctx.Err(); err != nil {
			return cp, err
		}
		if cp.Completed(category) {
			log.Printf("[%s] already processed successfully, skipping", category)
			continue
		}

		log.Printf("==== processing category: %s ====", category)
		res, err := r.runCategory(ctx, category, seen)
		switch {
		case err == nil:
			cp.Digests[category] = res.Digest
			cp.Corpora[category] = res.Corpus
			log.Printf("[%s] completed: %d cited, cost $%.4f", category, len(res.Selected), res.Cost)
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return cp, err
		default:
			log.Printf("[%s] failed: %v", category, err)
			marker := fmt.Sprintf("%s: %v", checkpoint.ErrorMarker, err)
			cp.Digests[category] = marker
			cp.Corpora[category] = marker
		}

		cp.SeenURLs = seen.Snapshot()
		if err := r.store.Save(ctx, cp); err != nil {
			log.Printf("checkpoint save failed after %s: %v", category, err)
		}
	}

	return cp, nil
}

// runCategory isolates panics so one misbehaving category cannot take down
// the whole execution.
func (r *Runner) runCategory(ctx context.Context, category string, seen *SeenURLs) (res CategoryResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return r.wf.Run(ctx, category, seen)
}
