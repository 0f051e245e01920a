package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"classmind.io/agentic-rag/internal/config"
	"classmind.io/agentic-rag/internal/store"
)

const (
	// NumRelevantFragments caps how many fragments feed the prompt context.
	NumRelevantFragments = 3

	maxSuggestions = 5
)

// Retriever fetches the most relevant indexed fragments for a query. It is
// read-only: a failed retrieval is safe to retry.
type Retriever struct {
	embedder Embedder
	searcher Searcher
	logger   *zap.Logger
}

func NewRetriever(embedder Embedder, searcher Searcher, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		logger:   logger,
	}
}

// Retrieve encodes the query and returns up to NumRelevantFragments nearest
// fragments, most similar first. A non-empty source restricts the search to
// that document. An empty result is not an error; the pipeline answers
// context-free in that case.
func (r *Retriever) Retrieve(ctx context.Context, query, source string) ([]store.Fragment, error) {
	queryVector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, config.AppConfig.SearchTimeout)
	defer cancel()

	fragments, err := r.searcher.Search(searchCtx, queryVector, source, NumRelevantFragments)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	if len(fragments) == 0 {
		r.logger.Info("no relevant fragments found", zap.String("source", source))
	}
	return fragments, nil
}

// SuggestWords returns up to five words found in fragments of the selected
// document that start with the given prefix, case-insensitively. Both the
// prefix and the document must be set; otherwise there is nothing to suggest.
func (r *Retriever) SuggestWords(ctx context.Context, prefix, source string) ([]string, error) {
	if prefix == "" || source == "" {
		return nil, nil
	}

	prefixVector, err := r.embedder.Embed(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to embed prefix: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, config.AppConfig.SearchTimeout)
	defer cancel()

	fragments, err := r.searcher.Search(searchCtx, prefixVector, source, maxSuggestions)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	lowerPrefix := strings.ToLower(prefix)
	seen := make(map[string]bool)
	var suggestions []string
	for _, frag := range fragments {
		for _, word := range strings.Fields(frag.Text) {
			if !strings.HasPrefix(strings.ToLower(word), lowerPrefix) || seen[word] {
				continue
			}
			seen[word] = true
			suggestions = append(suggestions, word)
			if len(suggestions) >= maxSuggestions {
				return suggestions, nil
			}
		}
	}
	return suggestions, nil
}
