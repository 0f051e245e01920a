package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"classmind.io/agentic-rag/internal/store"
)

// stage is one state of the pipeline state machine. The topology is fixed:
// Start → ContextExtracted → PersonaClassified → Answered → HistoryUpdated →
// End. The classified persona parameterizes the generation handler but never
// changes the path, and no stage is re-entered.
type stage int

const (
	stageStart stage = iota
	stageContextExtracted
	stagePersonaClassified
	stageAnswered
	stageHistoryUpdated
	stageEnd
)

// Pipeline runs one query through retrieval, classification, generation and
// history recording. Each request gets its own QueryState; nothing is shared
// between concurrent runs.
type Pipeline struct {
	retriever  *Retriever
	classifier *Classifier
	responder  *ResponseGenerator
	history    HistoryLog
	logger     *zap.Logger
}

func NewPipeline(retriever *Retriever, classifier *Classifier, responder *ResponseGenerator, history HistoryLog, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		retriever:  retriever,
		classifier: classifier,
		responder:  responder,
		history:    history,
		logger:     logger,
	}
}

// Run drives the state machine over st. A failure before an answer exists
// aborts the run and is returned wrapped in its stage sentinel. A history
// write failure after the answer exists is logged and absorbed: the caller
// must still get the answer.
func (p *Pipeline) Run(ctx context.Context, st *QueryState) error {
	if strings.TrimSpace(st.Query) == "" {
		return fmt.Errorf("%w: missing query", ErrValidation)
	}

	for current := stageStart; current != stageEnd; {
		switch current {
		case stageStart:
			fragments, err := p.retriever.Retrieve(ctx, st.Query, st.SelectedSource)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrRetrieval, err)
			}
			st.ContextFragments = fragments
			current = stageContextExtracted

		case stageContextExtracted:
			st.Persona = p.classifier.Classify(ctx, st.Query, st.ContextTexts())
			current = stagePersonaClassified

		case stagePersonaClassified:
			answer, err := p.responder.Generate(ctx, st.Persona, st.Query, st.ContextTexts())
			if err != nil {
				return fmt.Errorf("%w: %v", ErrGeneration, err)
			}
			st.Answer = answer
			current = stageAnswered

		case stageAnswered:
			p.recordHistory(ctx, st)
			current = stageHistoryUpdated

		case stageHistoryUpdated:
			current = stageEnd
		}
	}
	return nil
}

// recordHistory appends the completed exchange to the durable log and to the
// in-memory history. Availability over durability: if the write fails, the
// entry keeps an empty ID and the failure is only logged.
func (p *Pipeline) recordHistory(ctx context.Context, st *QueryState) {
	entry := store.ChatEntry{
		Question:     st.Query,
		Answer:       st.Answer,
		Persona:      string(st.Persona),
		UserIdentity: st.UserIdentity,
	}
	if st.SelectedSource != "" {
		source := st.SelectedSource
		entry.SelectedSource = &source
	}

	if err := p.history.Append(ctx, &entry); err != nil {
		p.logger.Error("failed to persist chat entry", zap.String("user", st.UserIdentity), zap.Error(err))
	}

	st.History = append(st.History, entry)
}
