package newsagent

import (
	"context"
	"log"
	"strings"
)

// revise is the terminal node. A draft that already met all criteria passes
// through unchanged; otherwise the model rewrites it against the full raw
// corpus, applying the critique and removing flagged claims. A failed or
// empty rewrite falls back to the existing draft, so the final digest is
// never empty.
func (w *Workflow) revise(ctx context.Context, run *CategoryRun) {
	if run.CritiqueStatus == StatusAllCriteriaMet {
		run.Final = run.Digest
		log.Printf("[%s] critique met all criteria; draft finalized as-is", run.Category)
		return
	}

	today := dateOnly(w.now()).Format("2006-01-02")
	user := buildReviserUserPrompt(run.Category, w.newsPerCategory, today,
		run.CritiqueNotes, run.Hallucinations, run.Digest, run.Corpus)
	w.debugf("[%s] reviser prompt:\n%s", run.Category, user)

	resp, err := w.model.Generate(ctx, reviserSystemPrompt, user)
	if err != nil {
		log.Printf("[%s] reviser call failed, keeping draft: %v", run.Category, err)
		run.Final = run.Digest
		return
	}
	run.Cost += resp.Cost

	if strings.TrimSpace(resp.Text) == "" {
		run.Final = run.Digest
		return
	}
	run.Final = resp.Text
	log.Printf("[%s] revision complete (%d bytes)", run.Category, len(run.Final))
}
