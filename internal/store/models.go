package store

import "time"

// ChatEntry is one persisted question/answer exchange. The log is append-only:
// nothing in this service updates or deletes rows once written.
type ChatEntry struct {
	ID             string    `json:"id,omitempty"` // UUID assigned on insert; empty if persistence failed
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	SelectedSource *string   `json:"selected_source"` // Nullable
	Persona        string    `json:"persona"`
	UserIdentity   string    `json:"user_identity"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// Fragment is one retrieved chunk of indexed text. Score is the store's
// similarity metric and stays internal; it is never sent to callers.
type Fragment struct {
	Text   string
	Source string
	Score  float32
}
