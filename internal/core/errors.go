package core

import "errors"

// Stage error sentinels. Wrapped into the error a failed pipeline run returns
// so the API layer can tell a client mistake from a stage failure.
var (
	// ErrValidation covers malformed input, e.g. an empty query.
	ErrValidation = errors.New("validation failed")

	// ErrRetrieval covers embedding or similarity-search failures. Retrieval
	// is read-only, so retrying is always safe.
	ErrRetrieval = errors.New("context retrieval failed")

	// ErrGeneration covers generation failures and empty model output. No
	// placeholder answer is ever substituted.
	ErrGeneration = errors.New("response generation failed")
)
