package newsagent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"newsagent/checkpoint"
)

type memStore struct {
	cp      checkpoint.Checkpoint
	loadErr error
	saves   int
}

func (m *memStore) Load(_ context.Context) (checkpoint.Checkpoint, error) {
	if m.loadErr != nil {
		return checkpoint.Checkpoint{}, m.loadErr
	}
	return m.cp, nil
}

func (m *memStore) Save(_ context.Context, cp checkpoint.Checkpoint) error {
	m.cp = cp
	m.saves++
	return nil
}

func happyWorkflowFor(categories int) (*Workflow, *scriptedSearch) {
	llm := &scriptedLLM{}
	for i := 0; i < categories; i++ {
		llm.planner = append(llm.planner, "Search queries:\n- q")
		llm.writer = append(llm.writer, "### Digest")
		llm.critic = append(llm.critic, "All criteria met.")
	}
	searcher := &scriptedSearch{}
	for i := 0; i < categories; i++ {
		searcher.results = append(searcher.results, resultsN(5, 1+10*i))
	}
	wf := newTestWorkflow(
		WithSearchProvider(searcher),
		WithModel(llm),
		WithAnalyzerModel(&yesAnalyzer{}),
	)
	return wf, searcher
}

func TestRunnerProcessesAllCategories(t *testing.T) {
	wf, searcher := happyWorkflowFor(2)
	store := &memStore{}
	r := NewRunner(wf, store, []string{"Energy", "Shipping"})

	cp, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cp.RunID == "" {
		t.Fatal("run ID not assigned")
	}
	for _, cat := range []string{"Energy", "Shipping"} {
		if cp.Digests[cat] != "### Digest" {
			t.Fatalf("[%s] digest = %q", cat, cp.Digests[cat])
		}
		if cp.Corpora[cat] == "" {
			t.Fatalf("[%s] corpus missing", cat)
		}
	}
	if len(cp.SeenURLs) != 10 {
		t.Fatalf("expected 10 seen URLs, got %d", len(cp.SeenURLs))
	}
	if store.saves != 2 {
		t.Fatalf("expected a save per category, got %d", store.saves)
	}
	if searcher.calls != 2 {
		t.Fatalf("expected 2 search calls, got %d", searcher.calls)
	}
}

func TestRunnerSkipsCompletedCategories(t *testing.T) {
	wf, searcher := happyWorkflowFor(1)
	store := &memStore{cp: checkpoint.Checkpoint{
		Digests: map[string]string{"Energy": "### Stored digest"},
		Corpora: map[string]string{"Energy": "stored corpus"},
	}}
	r := NewRunner(wf, store, []string{"Energy", "Shipping"})

	cp, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cp.Digests["Energy"] != "### Stored digest" || cp.Corpora["Energy"] != "stored corpus" {
		t.Fatal("completed category must be left byte-identical")
	}
	if cp.Digests["Shipping"] != "### Digest" {
		t.Fatalf("pending category not processed: %q", cp.Digests["Shipping"])
	}
	if searcher.calls != 1 {
		t.Fatalf("expected searches only for the pending category, got %d", searcher.calls)
	}
}

func TestRunnerRetriesFailedCategories(t *testing.T) {
	wf, _ := happyWorkflowFor(1)
	store := &memStore{cp: checkpoint.Checkpoint{
		Digests: map[string]string{"Energy": checkpoint.ErrorMarker + ": search exploded"},
		Corpora: map[string]string{"Energy": checkpoint.ErrorMarker + ": search exploded"},
	}}
	r := NewRunner(wf, store, []string{"Energy"})

	cp, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cp.Digests["Energy"] != "### Digest" {
		t.Fatalf("error-marked category must be reprocessed, got %q", cp.Digests["Energy"])
	}
}

func TestRunnerIsolatesCategoryFailures(t *testing.T) {
	// No search provider: every category errors out of validation, gets an
	// error marker, and the execution still covers the full list.
	wf := newTestWorkflow(
		WithModel(&scriptedLLM{}),
		WithAnalyzerModel(&yesAnalyzer{}),
	)
	store := &memStore{}
	r := NewRunner(wf, store, []string{"Energy", "Shipping"})

	cp, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cat := range []string{"Energy", "Shipping"} {
		if !strings.HasPrefix(cp.Digests[cat], checkpoint.ErrorMarker) {
			t.Fatalf("[%s] digest = %q, want error marker", cat, cp.Digests[cat])
		}
		if cp.Completed(cat) {
			t.Fatalf("[%s] must not count as completed", cat)
		}
	}
	if store.saves != 2 {
		t.Fatalf("expected a save per category, got %d", store.saves)
	}
}

func TestRunnerThreadsSeenURLsAcrossCategories(t *testing.T) {
	// Both categories surface the same single article; only the first may
	// cite it.
	llm := &scriptedLLM{
		planner: []string{"Search queries:\n- q", "Search queries:\n- q"},
		writer:  []string{"draft A", "draft B", "draft B2", "draft B3"},
		critic: []string{
			"All criteria met.",
			"All criteria met.", "All criteria met.", "All criteria met.",
		},
		refiner: []string{"- q2", "- q3"},
		reviser: []string{"final B"},
	}
	shared := []SearchResult{{
		Title:         "Shared story",
		URL:           "https://example.com/shared",
		Snippet:       "text",
		PublishedDate: ts(1),
	}}
	searcher := &scriptedSearch{results: [][]SearchResult{shared, shared, shared, shared}}

	wf := newTestWorkflow(
		WithSearchProvider(searcher),
		WithModel(llm),
		WithAnalyzerModel(&yesAnalyzer{}),
		WithNewsPerCategory(1),
	)
	store := &memStore{}
	r := NewRunner(wf, store, []string{"A", "B"})

	cp, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cp.SeenURLs) != 1 || cp.SeenURLs[0] != "https://example.com/shared" {
		t.Fatalf("seen URLs = %v", cp.SeenURLs)
	}
	if cp.Digests["A"] != "draft A" {
		t.Fatalf("category A digest = %q", cp.Digests["A"])
	}
	// Category B could never select the shared URL, so it exhausted its
	// iterations and finalized through revision.
	if cp.Digests["B"] != "final B" {
		t.Fatalf("category B digest = %q", cp.Digests["B"])
	}
}

func TestRunnerStartsFreshOnLoadFailure(t *testing.T) {
	wf, _ := happyWorkflowFor(1)
	store := &memStore{loadErr: errors.New("disk on fire")}
	r := NewRunner(wf, store, []string{"Energy"})

	cp, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cp.Digests["Energy"] != "### Digest" {
		t.Fatalf("digest = %q", cp.Digests["Energy"])
	}
}

func TestRunnerStopsOnCancellation(t *testing.T) {
	wf, _ := happyWorkflowFor(2)
	store := &memStore{}
	r := NewRunner(wf, store, []string{"Energy", "Shipping"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
