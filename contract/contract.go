//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"job-board/domain/event"
)

// EventSink receives events destined for one connected client.
// Consume must never block the caller: a sink that cannot keep up is
// expected to drop rather than stall the router.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IPresence is the live mapping between a user identity and the session
// that currently speaks for it.
type IPresence interface {
	Register(userID, sessionID string)
	Resolve(userID string) (string, bool)
	Unregister(sessionID string)
}

// IChannel multiplexes the long-lived client connections.
type IChannel interface {
	Unicast(ctx context.Context, sessionID string, e event.DomainEvent) error
	Broadcast(ctx context.Context, e event.DomainEvent)
}
