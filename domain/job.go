package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job is a persisted posting document. Title and CompanyName are the only
// fields the relay itself relies on; everything else is free-form payload
// carried for the board's benefit.
type Job struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	CompanyName string         `json:"companyName"`
	Location    string         `json:"location,omitempty"`
	Description string         `json:"description,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
