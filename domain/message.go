package domain

import (
	"time"

	"github.com/google/uuid"
)

const roomSeparator = "_"

// ChatMessage is a persisted direct message between two participants.
// Immutable once stored.
type ChatMessage struct {
	ID         uuid.UUID `json:"id"`
	RoomID     string    `json:"roomId"`
	SenderID   string    `json:"senderIdentity"`
	ReceiverID string    `json:"receiverIdentity"`
	Body       string    `json:"text"`
	CreatedAt  time.Time `json:"timestamp"`
}

// RoomKey derives the conversation identifier for a participant pair.
// The two identities are sorted lexicographically before joining, so the
// key is symmetric and can be rebuilt from either side without a lookup.
func RoomKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + roomSeparator + b
}
