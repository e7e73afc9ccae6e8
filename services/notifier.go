//go:generate go run go.uber.org/mock/mockgen -source=notifier.go -destination=../mocks/mock_notifier.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"job-board/contract"
	"job-board/domain"
	"job-board/domain/event"
	"job-board/errors"
	"job-board/moderation"
	"job-board/observability"
	"job-board/repositories"
)

type INotifier interface {
	PostJob(ctx context.Context, job domain.Job) (uuid.UUID, error)
	SubmitApplication(ctx context.Context, jobID uuid.UUID, applicantName, employerID string) error
	NotifyEmployer(ctx context.Context, employerID, jobTitle, applicantName string) error
	NotifyJobPosted(ctx context.Context, title, companyName string) error
	SendMessage(ctx context.Context, senderID, receiverID, body string) (domain.ChatMessage, error)
	History(user1, user2 string, cursor *string) ([]domain.ChatMessage, *string, error)
}

// Notifier is the routing core: it consumes domain events from either
// transport, persists what must be durable, resolves recipients through
// the presence registry and pushes delivery onto the channel.
// Every operation is single-shot; no persistence or delivery failure is
// ever retried here.
type Notifier struct {
	jobs      repositories.IJobRepository
	messages  repositories.IMessageRepository
	presence  contract.IPresence
	channel   contract.IChannel
	moderator *moderation.Moderator
	stats     *observability.Stats
	log       *slog.Logger
}

func NewNotifier(
	jobs repositories.IJobRepository,
	messages repositories.IMessageRepository,
	presence contract.IPresence,
	channel contract.IChannel,
	moderator *moderation.Moderator,
	stats *observability.Stats,
	log *slog.Logger,
) *Notifier {
	return &Notifier{
		jobs:      jobs,
		messages:  messages,
		presence:  presence,
		channel:   channel,
		moderator: moderator,
		stats:     stats,
		log:       log,
	}
}

// PostJob persists the posting, then announces it to every connection.
// A persistence failure aborts before anything is emitted.
func (n *Notifier) PostJob(ctx context.Context, job domain.Job) (uuid.UUID, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	if err := n.jobs.StoreJob(job); err != nil {
		return uuid.Nil, err
	}
	n.stats.IncrJobsStored()

	n.channel.Broadcast(ctx, event.JobPosted{
		Title:       job.Title,
		CompanyName: job.CompanyName,
	})
	return job.ID, nil
}

// SubmitApplication recovers the posting's title by id, then attempts a
// best-effort notification of the employer. An unknown job id aborts with
// ErrJobNotFound; an offline employer does not — delivery silently
// degrades to a no-op.
func (n *Notifier) SubmitApplication(ctx context.Context, jobID uuid.UUID, applicantName, employerID string) error {
	job, err := n.jobs.GetJob(jobID)
	if err != nil {
		return err
	}

	sessionID, online := n.presence.Resolve(employerID)
	if !online {
		n.log.Debug("Employer offline, skipping application notification", "employer", employerID)
		return nil
	}

	e := event.ApplicationSubmitted{
		JobTitle:      job.Title,
		ApplicantName: applicantName,
	}
	if err := n.channel.Unicast(ctx, sessionID, e); err != nil {
		// The session vanished between resolve and delivery; same outcome
		// as an offline employer on this best-effort path.
		n.log.Debug("Application notification not delivered", "employer", employerID, "error", err)
	}
	return nil
}

// NotifyEmployer pushes an application alert straight to the employer,
// title already known. Unlike SubmitApplication this operation promises
// delivery confirmation, so an offline employer is a distinct failure.
func (n *Notifier) NotifyEmployer(ctx context.Context, employerID, jobTitle, applicantName string) error {
	sessionID, online := n.presence.Resolve(employerID)
	if !online {
		return errors.ErrEmployerOffline
	}

	e := event.ApplicationSubmitted{
		JobTitle:      jobTitle,
		ApplicantName: applicantName,
	}
	if err := n.channel.Unicast(ctx, sessionID, e); err != nil {
		return errors.ErrEmployerOffline
	}
	return nil
}

// NotifyJobPosted announces a posting without persisting anything.
// The broadcast is unconditional; zero connected clients is not an error.
func (n *Notifier) NotifyJobPosted(ctx context.Context, title, companyName string) error {
	n.channel.Broadcast(ctx, event.JobPosted{
		Title:       title,
		CompanyName: companyName,
	})
	return nil
}

// SendMessage persists the message, then attempts delivery to the
// receiver's current session. The store happens first: if it fails, no
// event is emitted. An offline receiver leaves the message durably stored
// and undelivered until they pull their backlog.
func (n *Notifier) SendMessage(ctx context.Context, senderID, receiverID, body string) (domain.ChatMessage, error) {
	message := domain.ChatMessage{
		ID:         uuid.New(),
		RoomID:     domain.RoomKey(senderID, receiverID),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       n.moderator.Censor(body),
		CreatedAt:  time.Now().UTC(),
	}

	if err := n.messages.StoreMessage(message); err != nil {
		return domain.ChatMessage{}, err
	}
	n.stats.IncrMessagesStored()

	sessionID, online := n.presence.Resolve(receiverID)
	if !online {
		n.log.Debug("Receiver offline, message stored only", "receiver", receiverID)
		return message, nil
	}

	e := event.MessageReceived{
		ID:         message.ID,
		RoomID:     message.RoomID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Body:       message.Body,
		CreatedAt:  message.CreatedAt,
	}
	if err := n.channel.Unicast(ctx, sessionID, e); err != nil {
		n.log.Debug("Message stored but not delivered", "receiver", receiverID, "error", err)
	}
	return message, nil
}

// History pages through a pair's stored conversation, newest first.
func (n *Notifier) History(user1, user2 string, cursor *string) ([]domain.ChatMessage, *string, error) {
	return n.messages.GetMessages(domain.RoomKey(user1, user2), cursor)
}
