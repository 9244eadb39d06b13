package entity

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is one persisted analysis run for data transfer between layers.
type Analysis struct {
	ID           uuid.UUID         `json:"id"`
	Source       string            `json:"source"`
	Format       string            `json:"format"`
	ContentHash  string            `json:"content_hash"`
	Status       string            `json:"status"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	Method       *string           `json:"method,omitempty"`
	Pages        int               `json:"pages"`
	Diagnostics  int               `json:"diagnostics"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   *time.Time        `json:"finished_at,omitempty"`
	Result       *StructuredResult `json:"result,omitempty"`

	// Reused is set when an earlier run over identical content was returned.
	Reused bool `json:"reused,omitempty"`
}
