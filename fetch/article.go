// Package fetch recovers article text for search results that came back
// without a snippet. The workflow uses it as an optional FetchProvider.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// defaultMaxChars matches the snippet cap requested from the search provider,
// so fetched text and native snippets get the same budget downstream.
const defaultMaxChars = 5000

// Article downloads a page and reduces it to plain text suitable for
// relevance analysis and corpus storage.
type Article struct {
	client   *http.Client
	maxChars int
}

// NewArticle creates a fetcher with a modest timeout.
func NewArticle() *Article {
	return &Article{
		client:   &http.Client{Timeout: 15 * time.Second},
		maxChars: defaultMaxChars,
	}
}

// Fetch downloads the URL content, strips the page chrome, and truncates to
// the snippet budget.
func (a *Article) Fetch(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", errors.New("fetch url is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	text := pageText(string(body))
	if len(text) > a.maxChars {
		text = text[:a.maxChars]
	}
	return text, nil
}

var (
	reChrome = regexp.MustCompile(`(?is)<(script|style|nav|header|footer|aside)[^>]*>.*?</(script|style|nav|header|footer|aside)>`)
	reTags   = regexp.MustCompile(`<[^>]+>`)
	reSpaces = regexp.MustCompile(`[ \t]+`)
)

var entities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// pageText drops page chrome and markup, then normalizes whitespace.
func pageText(html string) string {
	s := reChrome.ReplaceAllString(html, "")
	s = reTags.ReplaceAllString(s, " ")
	s = entities.Replace(s)
	s = reSpaces.ReplaceAllString(s, " ")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}
