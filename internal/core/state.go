package core

import (
	"strings"

	"classmind.io/agentic-rag/internal/store"
)

// Persona is the closed set of response styles a query can be answered with.
type Persona string

const (
	PersonaTechnical Persona = "technical"
	PersonaCustomer  Persona = "customer"
	PersonaCommon    Persona = "common"
)

// PersonaFromString maps raw classifier output to a Persona. Anything outside
// the three recognized labels, after lower-casing and trimming, routes to
// PersonaCommon. Misclassification costs answer style, not correctness, so an
// unrecognized label never fails a request.
func PersonaFromString(raw string) Persona {
	switch Persona(strings.ToLower(strings.TrimSpace(raw))) {
	case PersonaTechnical:
		return PersonaTechnical
	case PersonaCustomer:
		return PersonaCustomer
	case PersonaCommon:
		return PersonaCommon
	default:
		return PersonaCommon
	}
}

// roleWord is the wording used inside the generation prompt. The common
// persona reads as a "general" agent there.
func (p Persona) roleWord() string {
	if p == PersonaCommon {
		return "general"
	}
	return string(p)
}

// QueryState is the mutable record threaded through one pipeline run. It is
// constructed per request and discarded after the response is written; only
// the recorded ChatEntry outlives it.
type QueryState struct {
	Query            string
	SelectedSource   string // empty means no source filter
	ContextFragments []store.Fragment
	Persona          Persona
	Answer           string
	UserIdentity     string
	History          []store.ChatEntry
}

// ContextTexts returns the fragment texts in retrieval rank order.
func (st *QueryState) ContextTexts() []string {
	texts := make([]string, len(st.ContextFragments))
	for i, frag := range st.ContextFragments {
		texts[i] = frag.Text
	}
	return texts
}
