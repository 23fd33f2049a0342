package newsagent

import (
	"strings"
	"time"
)

// Candidate is one uniquely-URLed article fetched during research. It is
// created by the research step, mutated in place by the relevance analyzer,
// and read-only afterward. A candidate is never removed from a run's
// accumulation: irrelevant candidates still belong to the raw corpus.
type Candidate struct {
	URL                 string
	Headline            string
	Snippet             string
	PublishedDate       string
	Relevant            bool
	AffectedInstruments []string
}

// publishedTime parses the candidate's published date. The zero time serves
// as the sort sentinel for missing or unparseable dates, so undated items
// order last under a newest-first sort.
func (c Candidate) publishedTime() time.Time {
	t, ok := parseDate(c.PublishedDate)
	if !ok {
		return time.Time{}
	}
	return t
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateOnly truncates a timestamp to midnight UTC so the recency window is
// compared at day granularity.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Status is the critic's verdict on a digest draft.
type Status string

const (
	StatusNeedsMoreResearch Status = "NEEDS_MORE_RESEARCH"
	StatusNeedsImprovement  Status = "NEEDS_IMPROVEMENT"
	StatusAllCriteriaMet    Status = "ALL_CRITERIA_MET"
)

// CategoryRun holds the evolving state of one category's research run. It is
// owned by a single Workflow.Run call and mutated node by node; no concurrent
// mutation occurs.
type CategoryRun struct {
	Category string
	Plan     string
	Queries  []string

	// Accumulated grows monotonically across research rounds; Selected is
	// always a subset of it, capped at the per-category target.
	Accumulated []Candidate
	Selected    []Candidate

	Digest string // draft, produced by the writer
	Final  string // terminal digest, produced by the reviser
	Corpus string

	CritiqueStatus Status
	CritiqueNotes  []string
	Hallucinations []Flag

	// reserved holds the URLs this run has claimed in the global seen set,
	// so re-selection after a refine round can keep its own earlier picks.
	reserved map[string]struct{}

	LookbackDays     int // starts at 1, widened by the refiner
	Iteration        int // research rounds entered, starts at 0
	RetriesExhausted bool

	Cost float64
}

// State identifies the workflow node to execute next.
type State int

const (
	StatePlan State = iota
	StateResearch
	StateAnalyze
	StateSelect
	StateWrite
	StateHallucinationCheck
	StateCritique
	StateRefine
	StateRevise
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePlan:
		return "plan"
	case StateResearch:
		return "research"
	case StateAnalyze:
		return "analyze"
	case StateSelect:
		return "select"
	case StateWrite:
		return "write"
	case StateHallucinationCheck:
		return "hallucination_check"
	case StateCritique:
		return "critique"
	case StateRefine:
		return "refine"
	case StateRevise:
		return "revise"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
