package core

import (
	"context"
	"fmt"
	"strings"
)

const responsePromptTemplate = `You are a helpful %s agent. Respond only using the context.

Ensure formatting:
- No **bold**, *italic*, or bullet points
- Use paragraphs only

Query:
%s

Context:
%s`

// ResponseGenerator produces the persona-conditioned answer, grounded in the
// retrieved context only, and normalizes it to plain prose.
type ResponseGenerator struct {
	generator Generator
}

func NewResponseGenerator(generator Generator) *ResponseGenerator {
	return &ResponseGenerator{generator: generator}
}

func (g *ResponseGenerator) Generate(ctx context.Context, persona Persona, query string, contextTexts []string) (string, error) {
	prompt := fmt.Sprintf(responsePromptTemplate, persona.roleWord(), query, strings.Join(contextTexts, "\n"))

	raw, err := g.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	answer := CleanMarkdown(raw)
	if answer == "" {
		return "", fmt.Errorf("model produced an empty answer")
	}
	return answer, nil
}
