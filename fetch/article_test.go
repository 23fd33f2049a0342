package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>t</title><style>body { color: red; }</style></head>
<body>
<nav><a href="/">Home</a></nav>
<script>var tracking = true;</script>
<article>
<h1>Tanker rates surge</h1>
<p>Freight costs rose 40% &amp; shipowners cheered.</p>
</article>
<footer>Copyright 2026</footer>
</body>
</html>`

func TestArticleFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	text, err := NewArticle().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(text, "Tanker rates surge") {
		t.Fatalf("headline missing from %q", text)
	}
	if !strings.Contains(text, "rose 40% & shipowners") {
		t.Fatalf("entity not decoded in %q", text)
	}
	for _, chrome := range []string{"tracking", "color: red", "Home", "Copyright"} {
		if strings.Contains(text, chrome) {
			t.Fatalf("page chrome %q leaked into %q", chrome, text)
		}
	}
}

func TestArticleFetchTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<p>" + strings.Repeat("a", defaultMaxChars*2) + "</p>"))
	}))
	defer srv.Close()

	text, err := NewArticle().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(text) > defaultMaxChars {
		t.Fatalf("text length %d exceeds cap %d", len(text), defaultMaxChars)
	}
}

func TestArticleFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	a := NewArticle()
	if _, err := a.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if _, err := a.Fetch(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty URL")
	}
}
