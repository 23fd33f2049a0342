package newsagent

import (
	"log"
	"sort"
)

// selectCandidates filters the accumulation down to relevant candidates,
// orders them newest first (undated items sort last via the zero-time
// sentinel), and admits up to the per-category target whose URLs are not yet
// claimed globally. Each admitted URL is claimed atomically as it is chosen,
// so a URL cited by one category can never be cited by a later one.
func (w *Workflow) selectCandidates(run *CategoryRun, seen *SeenURLs) {
	relevant := make([]Candidate, 0, len(run.Accumulated))
	for _, c := range run.Accumulated {
		if c.Relevant {
			relevant = append(relevant, c)
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].publishedTime().After(relevant[j].publishedTime())
	})

	if run.reserved == nil {
		run.reserved = make(map[string]struct{})
	}
	selected := make([]Candidate, 0, w.newsPerCategory)
	for _, c := range relevant {
		if len(selected) >= w.newsPerCategory {
			break
		}
		if _, mine := run.reserved[c.URL]; mine {
			selected = append(selected, c)
		} else if seen.Reserve(c.URL) {
			run.reserved[c.URL] = struct{}{}
			selected = append(selected, c)
		}
	}
	run.Selected = selected

	log.Printf("[%s] selected %d/%d from %d relevant (%d accumulated); global seen URLs now %d",
		run.Category, len(selected), w.newsPerCategory, len(relevant), len(run.Accumulated), seen.Len())
}
