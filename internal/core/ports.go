package core

import (
	"context"

	"classmind.io/agentic-rag/internal/store"
)

// The pipeline depends on these narrow capabilities rather than on concrete
// clients, so each can be swapped for a fake in tests.

// Embedder maps text to a fixed-size vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher runs a nearest-neighbor query against the fragment index. A
// non-empty source restricts results to fragments from that document.
type Searcher interface {
	Search(ctx context.Context, vector []float32, source string, topK int) ([]store.Fragment, error)
}

// Generator produces text for a single self-contained prompt. No state is
// held between calls; all context travels inline.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HistoryLog is the append-only durable chat log.
type HistoryLog interface {
	Append(ctx context.Context, entry *store.ChatEntry) error
}
