package checkpoint

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	cp := New()
	cp.Digests["Energy"] = "### Digest"
	cp.Corpora["Energy"] = "corpus text"
	cp.SeenURLs = []string{"https://example.com/a", "https://example.com/b"}

	if err := store.Save(ctx, cp); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got.Digests, cp.Digests) {
		t.Fatalf("digests = %v, want %v", got.Digests, cp.Digests)
	}
	if !reflect.DeepEqual(got.Corpora, cp.Corpora) {
		t.Fatalf("corpora = %v, want %v", got.Corpora, cp.Corpora)
	}
	if !reflect.DeepEqual(got.SeenURLs, cp.SeenURLs) {
		t.Fatalf("seen urls = %v, want %v", got.SeenURLs, cp.SeenURLs)
	}
}

func TestFileStoreLoadEmptyDir(t *testing.T) {
	store := NewFileStore(t.TempDir())

	cp, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cp.Digests) != 0 || len(cp.Corpora) != 0 || len(cp.SeenURLs) != 0 {
		t.Fatalf("fresh dir must load empty, got %+v", cp)
	}
	if cp.Digests == nil || cp.Corpora == nil {
		t.Fatal("maps must be initialized")
	}
}

func TestFileStoreLoadPartialFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "news_digests.json")
	if err := os.WriteFile(path, []byte(`{"Energy": "### Digest"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(dir)

	cp, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cp.Digests["Energy"] != "### Digest" {
		t.Fatalf("digests = %v", cp.Digests)
	}
	if len(cp.Corpora) != 0 {
		t.Fatalf("corpora = %v, want empty", cp.Corpora)
	}
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "seen_urls.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(dir).Load(context.Background()); err == nil {
		t.Fatal("corrupt file must surface an error")
	}
}

func TestCompleted(t *testing.T) {
	cp := New()
	cp.Digests["Done"] = "### Digest"
	cp.Corpora["Done"] = "corpus"
	cp.Digests["Failed"] = ErrorMarker + ": timeout"
	cp.Corpora["Failed"] = ErrorMarker + ": timeout"
	cp.Digests["Empty"] = ""
	cp.Corpora["Empty"] = ""
	cp.Digests["NoCorpus"] = "### Digest"

	tests := []struct {
		category string
		want     bool
	}{
		{"Done", true},
		{"Failed", false},
		{"Empty", false},
		{"NoCorpus", false},
		{"Unknown", false},
	}
	for _, tt := range tests {
		if got := cp.Completed(tt.category); got != tt.want {
			t.Errorf("Completed(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}
