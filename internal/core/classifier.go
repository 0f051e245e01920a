package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const classifierPromptTemplate = `You are a routing agent responsible for determining the appropriate agent to handle the user query and how the selected agent should respond.

Agent types: technical, customer, common

Rules:
- technical: engineering-related queries
- customer: support/product/service queries
- common: general queries

Return only one: technical, customer, or common.

Query: %s

Context:
%s`

// Classifier decides which persona answers a query. Its verdict is advisory:
// a failed call or an off-script label routes to the common persona instead
// of failing the request.
type Classifier struct {
	generator Generator
	logger    *zap.Logger
}

func NewClassifier(generator Generator, logger *zap.Logger) *Classifier {
	return &Classifier{
		generator: generator,
		logger:    logger,
	}
}

func (c *Classifier) Classify(ctx context.Context, query string, contextTexts []string) Persona {
	prompt := fmt.Sprintf(classifierPromptTemplate, query, strings.Join(contextTexts, "\n"))

	raw, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("persona classification failed, defaulting to common", zap.Error(err))
		return PersonaCommon
	}

	persona := PersonaFromString(raw)
	if string(persona) != strings.ToLower(strings.TrimSpace(raw)) {
		c.logger.Warn("unrecognized persona label, defaulting to common", zap.String("raw", raw))
	}
	return persona
}
