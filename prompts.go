package newsagent

import (
	"encoding/json"
	"fmt"
	"strings"
)

const maxPromptInstrumentBytes = 2000
const maxPromptSnippetBytes = 2000

const plannerSystemPrompt = "You are an expert research planner. Devise a strategy to find unique, late-breaking news stories for the given sector from the trusted news domains provided. Each story must come from a different article (unique URL). Summarize your plan, then list 3-4 diverse search queries under a 'Search queries' heading, each prefixed with '- '."

const writerSystemPrompt = "You are a financial newswriter. Given research items (headlines, snippets, URLs, and identified relevant instruments), produce a clear news digest in the exact format requested. Do not add notes or preambles; your output is processed directly."

const criticSystemPrompt = "You are a meticulous review agent. Evaluate the draft news digest against the stated criteria. If there are significant issues, reply with NEEDS_MORE_RESEARCH on the first line followed by a bulleted list of specific issues. If the issues are minor, reply with a numbered list of short, actionable fixes. If the draft meets all criteria, reply with 'All criteria met.'"

const refinerSystemPrompt = "You are a research query refiner. Given the critique of an insufficient search round and the queries already used, suggest 1-3 new or refined search queries. Keep each query under 8 words. List each query on its own line, prefixed with '- '."

const reviserSystemPrompt = "You are an expert revision writer. Improve the draft news digest by applying the critique and handling flagged hallucinations. Never introduce information absent from the research content. Keep the original item format exactly; your output is processed directly."

func buildPlannerUserPrompt(category, instruments, principles string, n int, date string, domains []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s\nToday's date: %s\nStories needed: %d\n", category, date, n)
	b.WriteString("Trusted domains: ")
	b.WriteString(strings.Join(domains, ", "))
	b.WriteString("\n\nInvestment instruments (for awareness only, do not make queries for each):\n")
	b.WriteString(truncate(instruments, maxPromptInstrumentBytes))
	b.WriteString("\n\nGeneral investment principles:\n")
	b.WriteString(principles)
	b.WriteString("\n\nGenerate the plan and search queries.")
	return b.String()
}

func buildAnalyzerPrompt(c Candidate, instruments string) string {
	var b strings.Builder
	b.WriteString("You are a precise financial news analyst. Determine whether the news article below is potentially impactful or relevant to any instrument in the list. The article need not name an instrument directly; sector, underlying commodity, or macro effects count. Your entire response MUST be a single JSON object.\n\n")
	b.WriteString("NEWS ARTICLE:\n")
	fmt.Fprintf(&b, "Headline: %s\n", c.Headline)
	fmt.Fprintf(&b, "Snippet: %s\n", truncate(c.Snippet, maxPromptSnippetBytes))
	fmt.Fprintf(&b, "URL: %s\n\n", c.URL)
	b.WriteString("LIST OF INSTRUMENTS (Ticker/Identifier\tName):\n")
	b.WriteString(instruments)
	b.WriteString("\n\nList up to 5 affected Ticker/Identifiers exactly as they appear in the list, or an empty list if none.\n")
	b.WriteString("Desired JSON output structure:\n")
	b.WriteString(`{"is_relevant": "YES" or "NO", "affected_instruments": ["..."]}`)
	return b.String()
}

func buildWriterUserPrompt(category string, n int, date, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce exactly %d distinct news items for the %q category. Today's date is %s.\n\n", n, category, date)
	b.WriteString("For each item include:\n")
	b.WriteString("- A short, impactful headline (wrap in ### <Headline>)\n")
	b.WriteString("- A 50-word digest, one paragraph, reflecting recency and weaving in identified instrument context where natural\n")
	b.WriteString("- The full source URL (format: - citation: <full URL>)\n\n")
	b.WriteString("Format for each item:\n### <Headline>\n\n<Digest (1 paragraph)>\n\n- citation: <full URL>\n\n")
	b.WriteString("RESEARCH CONTENT:\n")
	b.WriteString(content)
	return b.String()
}

func buildCriticUserPrompt(category string, n int, date, digest string, flags []Flag) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Critique the draft digest for %q. Today's date is %s.\n\n", category, date)
	fmt.Fprintf(&b, "Criteria:\n1. Exactly %d unique news items.\n", n)
	b.WriteString("2. Instrument context woven into each digest where relevance was identified.\n")
	b.WriteString("3. Recency relative to today's date.\n")
	b.WriteString("4. Clarity and conciseness.\n")
	b.WriteString("5. Source URLs all present and all unique.\n")
	b.WriteString("6. No vague or unsupported claims.\n")
	b.WriteString("7. Formatting: ### Headline, digest paragraph, '- citation: URL'.\n")
	b.WriteString("8. Flagged hallucinations addressed.\n\n")
	b.WriteString("DRAFT NEWS DIGEST:\n")
	b.WriteString(digest)
	b.WriteString("\n\nHALLUCINATIONS:\n")
	b.WriteString(formatFlags(flags))
	return b.String()
}

func buildRefinerUserPrompt(category, date string, notes, queries []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The previous search round for %q news did not yield enough distinct, instrument-relevant articles. Today's date is %s.\n", category, date)
	b.WriteString("The date range for the next search will be expanded by one day; your queries should focus on content.\n\n")
	b.WriteString("Critique:\n")
	b.WriteString(strings.Join(notes, "\n"))
	b.WriteString("\n\nQueries already used:\n")
	b.WriteString(strings.Join(queries, "\n"))
	b.WriteString("\n\nSuggest new or refined search queries.")
	return b.String()
}

func buildReviserUserPrompt(category string, n int, date string, notes []string, flags []Flag, draft, corpus string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Revise the draft digest for %q. Today's date is %s. The final digest must contain %d unique items if the source material allows; otherwise revise the existing items as best as possible.\n\n", category, date, n)
	b.WriteString("CRITIQUE:\n")
	if len(notes) == 0 {
		b.WriteString("No specific critique points provided.\n")
	} else {
		b.WriteString(strings.Join(notes, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\nHALLUCINATIONS:\n")
	b.WriteString(formatFlags(flags))
	b.WriteString("\n\nORIGINAL DRAFT DIGEST:\n")
	b.WriteString(draft)
	b.WriteString("\n\nFULL RESEARCH CONTENT (use this as your source of truth):\n")
	b.WriteString(corpus)
	return b.String()
}

func formatFlags(flags []Flag) string {
	if len(flags) == 0 {
		return "None provided."
	}
	data, err := json.MarshalIndent(flags, "", "  ")
	if err != nil {
		return "None provided."
	}
	return string(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// extractBullets pulls "- " and "• " prefixed lines out of model output.
func extractBullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		var item string
		switch {
		case strings.HasPrefix(line, "- "):
			item = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "• "):
			item = strings.TrimSpace(strings.TrimPrefix(line, "• "))
		default:
			continue
		}
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// extractPlannedQueries scans the plan text for a queries section and collects
// its bulleted lines.
func extractPlannedQueries(text string) []string {
	var queries []string
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		lower := strings.ToLower(stripped)
		if strings.HasPrefix(lower, "search queries") || strings.HasPrefix(lower, "suggested queries") || strings.HasPrefix(lower, "queries") {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if q := extractBullets(stripped); len(q) > 0 {
			queries = append(queries, q...)
		}
	}
	return queries
}

// parseCritique reads the critic's verdict from the first non-blank line and
// keeps every non-blank line as an actionable note. An unrecognized first
// line means the draft is fixable without more research.
func parseCritique(raw string) (Status, []string) {
	var notes []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			notes = append(notes, trimmed)
		}
	}
	status := StatusNeedsImprovement
	if len(notes) > 0 {
		first := strings.ToLower(notes[0])
		switch {
		case strings.Contains(first, "needs_more_research"):
			status = StatusNeedsMoreResearch
		case strings.Contains(first, "all criteria met"):
			status = StatusAllCriteriaMet
		}
	}
	return status, notes
}
