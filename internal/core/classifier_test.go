package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClassifierRecognizedLabels(t *testing.T) {
	tests := []struct {
		raw  string
		want Persona
	}{
		{"technical", PersonaTechnical},
		{"customer", PersonaCustomer},
		{"common", PersonaCommon},
		{" Technical\n", PersonaTechnical},
	}

	for _, tt := range tests {
		gen := &fakeGenerator{responses: []string{tt.raw}}
		c := NewClassifier(gen, zap.NewNop())
		assert.Equal(t, tt.want, c.Classify(context.Background(), "how do I deploy?", nil), "raw=%q", tt.raw)
	}
}

func TestClassifierDefaultsOnUnrecognizedOutput(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"definitely a technical question"}}
	c := NewClassifier(gen, zap.NewNop())
	assert.Equal(t, PersonaCommon, c.Classify(context.Background(), "anything", nil))
}

func TestClassifierDefaultsOnGenerationError(t *testing.T) {
	gen := &fakeGenerator{errs: []error{errors.New("model unavailable")}}
	c := NewClassifier(gen, zap.NewNop())
	assert.Equal(t, PersonaCommon, c.Classify(context.Background(), "anything", nil))
}

func TestClassifierPromptCarriesQueryAndContext(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"common"}}
	c := NewClassifier(gen, zap.NewNop())

	c.Classify(context.Background(), "What is AI?", []string{"chunk one", "chunk two"})

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "What is AI?")
	assert.Contains(t, gen.prompts[0], "chunk one\nchunk two")
	assert.Contains(t, gen.prompts[0], "technical, customer, or common")
}
