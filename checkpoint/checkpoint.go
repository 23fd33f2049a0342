// Package checkpoint persists the outputs of an execution — per-category
// digests and corpora plus the global seen-URL list — so a restarted process
// can resume without reprocessing finished categories.
//
// Two adapters are provided: a JSON file store and a MongoDB store. Any
// backend-specific query compatibility lives entirely inside the adapters;
// callers only ever see the three-map Checkpoint value.
package checkpoint

import (
	"context"
	"strings"
)

// ErrorMarker prefixes the stored digest and corpus of a category that
// failed. Categories whose stored digest starts with this marker are retried
// on resume instead of skipped.
const ErrorMarker = "Error processing category"

// Checkpoint is the durable state of one execution.
type Checkpoint struct {
	// RunID identifies the execution that last wrote the checkpoint. The
	// file adapter does not persist it; run IDs are per-execution.
	RunID string

	Digests  map[string]string
	Corpora  map[string]string
	SeenURLs []string
}

// New returns an empty checkpoint with initialized maps.
func New() Checkpoint {
	return Checkpoint{
		Digests: make(map[string]string),
		Corpora: make(map[string]string),
	}
}

// Init ensures the maps are non-nil after decoding from a backend.
func (c *Checkpoint) Init() {
	if c.Digests == nil {
		c.Digests = make(map[string]string)
	}
	if c.Corpora == nil {
		c.Corpora = make(map[string]string)
	}
}

// Completed reports whether the category finished successfully in a previous
// execution and should be skipped on resume.
func (c Checkpoint) Completed(category string) bool {
	digest, ok := c.Digests[category]
	if !ok {
		return false
	}
	if _, ok := c.Corpora[category]; !ok {
		return false
	}
	return digest != "" && !strings.HasPrefix(digest, ErrorMarker)
}

// Store loads and saves checkpoints.
type Store interface {
	Load(ctx context.Context) (Checkpoint, error)
	Save(ctx context.Context, cp Checkpoint) error
}
