package newsagent

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const noRelevantArticles = "No relevant articles found for digest."

// write produces the two artifacts of a round: the digest draft, synthesized
// by the model from the selected candidates only, and the raw corpus, a
// deterministic serialization of every candidate ever accumulated in the run
// regardless of relevance.
func (w *Workflow) write(ctx context.Context, run *CategoryRun) {
	today := dateOnly(w.now()).Format("2006-01-02")

	content := noRelevantArticles
	if len(run.Selected) > 0 {
		content = digestContentBlock(run.Selected)
	}

	user := buildWriterUserPrompt(run.Category, w.newsPerCategory, today, content)
	w.debugf("[%s] writer prompt:\n%s", run.Category, user)
	resp, err := w.model.Generate(ctx, writerSystemPrompt, user)
	switch {
	case err != nil:
		log.Printf("[%s] writer call failed: %v", run.Category, err)
		if strings.TrimSpace(run.Digest) == "" {
			run.Digest = noRelevantArticles
		}
	case strings.TrimSpace(resp.Text) == "":
		run.Cost += resp.Cost
		if strings.TrimSpace(run.Digest) == "" {
			run.Digest = noRelevantArticles
		}
	default:
		run.Cost += resp.Cost
		run.Digest = resp.Text
	}

	run.Corpus = corpusDocument(run.Category, run.Accumulated)
	log.Printf("[%s] writer produced draft (%d bytes) and corpus (%d bytes) from %d candidates",
		run.Category, len(run.Digest), len(run.Corpus), len(run.Accumulated))
}

// digestContentBlock renders the selected candidates for the writer prompt.
func digestContentBlock(selected []Candidate) string {
	blocks := make([]string, 0, len(selected))
	for _, c := range selected {
		blocks = append(blocks, fmt.Sprintf(
			"Headline: %s\nSnippet: %s\nURL: %s\nIdentified Relevant Instruments: %s",
			c.Headline, c.Snippet, c.URL, instrumentsOrNone(c.AffectedInstruments)))
	}
	return strings.Join(blocks, "\n\n")
}

// corpusDocument serializes the full accumulation into the durable
// evidentiary record consumed outside this workflow.
func corpusDocument(category string, accumulated []Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Research corpus of raw news items gathered for %q.\n", category)
	b.WriteString("Includes every article fetched during research for this category, with instrument relevance analysis. Intended for LLM ingestion.\n\nRAW RESEARCH CONTENT:\n")
	if len(accumulated) == 0 {
		b.WriteString("No raw research articles were found or accumulated for this category.")
		return b.String()
	}
	for i, c := range accumulated {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&b, "Source URL: %s\nHeadline: %s\nPublished Date: %s\nInstrument Relevant: %v\nAffected Instruments: %s\n\nFull Snippet:\n%s",
			c.URL, c.Headline, valueOrNA(c.PublishedDate), c.Relevant,
			instrumentsOrNone(c.AffectedInstruments), c.Snippet)
	}
	return b.String()
}

func instrumentsOrNone(instruments []string) string {
	if len(instruments) == 0 {
		return "None"
	}
	return strings.Join(instruments, ", ")
}

func valueOrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
