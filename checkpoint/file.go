package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	digestsFile  = "news_digests.json"
	corporaFile  = "news_corpora.json"
	seenURLsFile = "seen_urls.json"
)

// FileStore keeps the checkpoint in three JSON files under one directory:
// a category→digest map, a category→corpus map, and a flat seen-URL list.
type FileStore struct {
	DigestsPath  string
	CorporaPath  string
	SeenURLsPath string
}

// NewFileStore builds a store rooted at dir with the default file names.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		DigestsPath:  filepath.Join(dir, digestsFile),
		CorporaPath:  filepath.Join(dir, corporaFile),
		SeenURLsPath: filepath.Join(dir, seenURLsFile),
	}
}

// Load reads whichever of the three files exist. Missing files yield empty
// maps, so a fresh directory loads as an empty checkpoint.
func (s *FileStore) Load(_ context.Context) (Checkpoint, error) {
	cp := New()

	if err := readJSON(s.DigestsPath, &cp.Digests); err != nil {
		return Checkpoint{}, fmt.Errorf("load digests: %w", err)
	}
	if err := readJSON(s.CorporaPath, &cp.Corpora); err != nil {
		return Checkpoint{}, fmt.Errorf("load corpora: %w", err)
	}
	if err := readJSON(s.SeenURLsPath, &cp.SeenURLs); err != nil {
		return Checkpoint{}, fmt.Errorf("load seen urls: %w", err)
	}
	cp.Init()
	return cp, nil
}

// Save writes all three files. Each file is written to a temp sibling and
// renamed into place so a crash mid-save cannot truncate existing state.
func (s *FileStore) Save(_ context.Context, cp Checkpoint) error {
	if err := writeJSON(s.DigestsPath, cp.Digests); err != nil {
		return fmt.Errorf("save digests: %w", err)
	}
	if err := writeJSON(s.CorporaPath, cp.Corpora); err != nil {
		return fmt.Errorf("save corpora: %w", err)
	}
	if err := writeJSON(s.SeenURLsPath, cp.SeenURLs); err != nil {
		return fmt.Errorf("save seen urls: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
