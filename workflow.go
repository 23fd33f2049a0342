package newsagent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Workflow runs the research-and-digest state machine for one category at a
// time: Plan → Research → Analyze → Select → Write → HallucinationCheck →
// Critique → {Refine → Research | Revise}.
type Workflow struct {
	searcher SearchProvider
	fetcher  FetchProvider
	model    LLMProvider
	analyzer StructuredProvider
	checker  HallucinationChecker

	newsPerCategory int
	maxIterations   int
	maxLookbackDays int
	resultsPerQuery int
	trustedDomains  []string
	instruments     string
	principles      string

	retryBaseDelay time.Duration
	debug          bool
	now            func() time.Time
}

// New constructs a Workflow with optional configuration.
func New(opts ...Option) *Workflow {
	w := &Workflow{
		newsPerCategory: defaultNewsPerCategory,
		maxIterations:   defaultMaxIterations,
		maxLookbackDays: defaultMaxLookbackDays,
		resultsPerQuery: defaultResultsPerQuery,
		retryBaseDelay:  defaultRetryBaseDelay,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes the state machine for one category. The seen set is shared
// across categories in one execution; only the selector mutates it, and only
// with URLs that were actually chosen for the digest.
//
// Run never returns an empty digest alongside a nil error: even a shortfall
// after exhausting every iteration yields whatever draft exists at forced
// termination.
func (w *Workflow) Run(ctx context.Context, category string, seen *SeenURLs) (CategoryResult, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return CategoryResult{}, errors.New("category is empty")
	}
	if w.searcher == nil {
		return CategoryResult{}, errors.New("search provider is not configured")
	}
	if w.model == nil {
		return CategoryResult{}, errors.New("model is not configured")
	}
	if w.analyzer == nil {
		return CategoryResult{}, errors.New("analyzer model is not configured")
	}
	if seen == nil {
		seen = NewSeenURLs()
	}

	run := &CategoryRun{Category: category, LookbackDays: 1}

	state := StatePlan
	for steps := 0; state != StateDone; steps++ {
		if steps >= maxWorkflowSteps {
			return w.result(run), fmt.Errorf("[%s] aborting after %d steps in state %s", category, steps, state)
		}
		if err := ctx.Err(); err != nil {
			return w.result(run), err
		}

		switch state {
		case StatePlan:
			w.plan(ctx, run)
		case StateResearch:
			run.Iteration++
			w.research(ctx, run, seen)
		case StateAnalyze:
			w.analyze(ctx, run)
		case StateSelect:
			w.selectCandidates(run, seen)
		case StateWrite:
			w.write(ctx, run)
		case StateHallucinationCheck:
			w.checkHallucinations(ctx, run)
		case StateCritique:
			w.critique(ctx, run)
		case StateRefine:
			w.refine(ctx, run)
		case StateRevise:
			w.revise(ctx, run)
		}

		state = w.nextState(state, run)
	}

	return w.result(run), nil
}

func (w *Workflow) result(run *CategoryRun) CategoryResult {
	digest := run.Final
	if strings.TrimSpace(digest) == "" {
		digest = run.Digest
	}
	if strings.TrimSpace(digest) == "" {
		digest = noRelevantArticles
	}
	return CategoryResult{
		Category: run.Category,
		Digest:   digest,
		Corpus:   run.Corpus,
		Selected: run.Selected,
		Cost:     run.Cost,
	}
}

// nextState routes between nodes. All edges are linear except the one leaving
// Critique, where the continue/stop decision runs.
func (w *Workflow) nextState(s State, run *CategoryRun) State {
	switch s {
	case StatePlan:
		return StateResearch
	case StateResearch:
		return StateAnalyze
	case StateAnalyze:
		return StateSelect
	case StateSelect:
		return StateWrite
	case StateWrite:
		return StateHallucinationCheck
	case StateHallucinationCheck:
		return StateCritique
	case StateCritique:
		return w.decide(run)
	case StateRefine:
		return StateResearch
	default:
		return StateDone
	}
}

// decide is the continue/stop rule applied after Critique. The refine loop is
// entered only when the critic explicitly asked for more research, the digest
// is still short of its target, this round's search retries were not
// exhausted, and iteration budget remains. Every other outcome finalizes.
func (w *Workflow) decide(run *CategoryRun) State {
	short := len(run.Selected) < w.newsPerCategory

	if run.RetriesExhausted && short {
		log.Printf("[%s] search retries exhausted with %d/%d selected; finalizing",
			run.Category, len(run.Selected), w.newsPerCategory)
		return StateRevise
	}
	if run.CritiqueStatus == StatusNeedsMoreResearch && short {
		if run.Iteration < w.maxIterations {
			log.Printf("[%s] %d/%d selected; refining queries (iteration %d/%d)",
				run.Category, len(run.Selected), w.newsPerCategory, run.Iteration, w.maxIterations)
			return StateRefine
		}
		log.Printf("[%s] %d/%d selected but iteration budget spent; finalizing",
			run.Category, len(run.Selected), w.newsPerCategory)
	}
	return StateRevise
}

// sleepBackoff waits base×2^attempt, honoring cancellation.
func (w *Workflow) sleepBackoff(ctx context.Context, attempt int) error {
	delay := w.retryBaseDelay * (1 << attempt)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (w *Workflow) debugf(format string, args ...any) {
	if w.debug {
		log.Printf(format, args...)
	}
}
