package event

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is anything the relay can push to a connected client.
// EventName is the name carried on the wire envelope.
type DomainEvent interface {
	EventName() string
}

// JobPosted is broadcast to every connection when a new posting lands.
type JobPosted struct {
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
}

func (JobPosted) EventName() string {
	return "job-posted"
}

// ApplicationSubmitted is unicast to the employer whose posting received
// an application.
type ApplicationSubmitted struct {
	JobTitle      string `json:"jobTitle"`
	ApplicantName string `json:"applicantName"`
}

func (ApplicationSubmitted) EventName() string {
	return "application-notification"
}

// MessageReceived carries the full stored message, room id and timestamp
// included, to the receiver's current connection.
type MessageReceived struct {
	ID         uuid.UUID `json:"id"`
	RoomID     string    `json:"roomId"`
	SenderID   string    `json:"senderIdentity"`
	ReceiverID string    `json:"receiverIdentity"`
	Body       string    `json:"text"`
	CreatedAt  time.Time `json:"timestamp"`
}

func (MessageReceived) EventName() string {
	return "message-received"
}
