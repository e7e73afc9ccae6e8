package services

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"job-board/domain"
	"job-board/domain/event"
	"job-board/errors"
	"job-board/moderation"
	"job-board/observability"
	"job-board/repositories"
	"job-board/runtime"
)

type unicastCall struct {
	SessionID string
	Event     event.DomainEvent
}

// recordingChannel stands in for the hub and records every delivery.
type recordingChannel struct {
	unicasts   []unicastCall
	broadcasts []event.DomainEvent
}

func (c *recordingChannel) Unicast(_ context.Context, sessionID string, e event.DomainEvent) error {
	c.unicasts = append(c.unicasts, unicastCall{SessionID: sessionID, Event: e})
	return nil
}

func (c *recordingChannel) Broadcast(_ context.Context, e event.DomainEvent) {
	c.broadcasts = append(c.broadcasts, e)
}

type failingJobRepo struct{}

func (failingJobRepo) StoreJob(domain.Job) error {
	return fmt.Errorf("disk on fire")
}

func (failingJobRepo) GetJob(uuid.UUID) (domain.Job, error) {
	return domain.Job{}, fmt.Errorf("disk on fire")
}

type failingMessageRepo struct{}

func (failingMessageRepo) StoreMessage(domain.ChatMessage) error {
	return fmt.Errorf("disk on fire")
}

func (failingMessageRepo) GetMessages(string, *string) ([]domain.ChatMessage, *string, error) {
	return nil, nil, fmt.Errorf("disk on fire")
}

type fixture struct {
	notifier *Notifier
	presence *runtime.Presence
	channel  *recordingChannel
	jobs     repositories.JobRepository
}

func newFixture(t *testing.T, censoredWords []string) fixture {
	t.Helper()
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	req.NoError(err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	log := slog.Default()
	moderator, err := moderation.NewModerator(censoredWords, '*', log)
	req.NoError(err)

	presence := runtime.NewPresence()
	channel := &recordingChannel{}
	jobs := repositories.NewJobRepository(db, log)
	messages := repositories.NewMessageRepository(db, log, nil)
	notifier := NewNotifier(jobs, messages, presence, channel, moderator, observability.NewStats(), log)

	return fixture{notifier: notifier, presence: presence, channel: channel, jobs: jobs}
}

func TestNotifier_PostJob_Persists_Then_Broadcasts(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil)

	id, err := f.notifier.PostJob(context.Background(), domain.Job{
		Title:       "Backend Engineer",
		CompanyName: "Initech",
	})
	req.NoError(err)
	req.NotEqual(uuid.Nil, id)

	stored, err := f.jobs.GetJob(id)
	req.NoError(err)
	req.Equal("Backend Engineer", stored.Title)

	req.Len(f.channel.broadcasts, 1)
	req.Equal(event.JobPosted{Title: "Backend Engineer", CompanyName: "Initech"}, f.channel.broadcasts[0])
}

func TestNotifier_PostJob_Store_Failure_Aborts(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil)
	channel := &recordingChannel{}
	notifier := NewNotifier(failingJobRepo{}, failingMessageRepo{}, f.presence, channel,
		mustModerator(t), observability.NewStats(), slog.Default())

	_, err := notifier.PostJob(context.Background(), domain.Job{Title: "x", CompanyName: "y"})
	req.Error(err)
	req.Empty(channel.broadcasts)
}

func TestNotifier_SubmitApplication_Online_Employer(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil)

	jobID, err := f.notifier.PostJob(context.Background(), domain.Job{
		Title:       "Backend Engineer",
		CompanyName: "Initech",
	})
	req.NoError(err)
	f.channel.broadcasts = nil

	employerSession := uuid.NewString()
	f.presence.Register("e@x", employerSession)

	req.NoError(f.notifier.SubmitApplication(context.Background(), jobID, "Alice", "e@x"))

	// Exactly one notification, to the employer's current session only
	req.Len(f.channel.unicasts, 1)
	req.Equal(employerSession, f.channel.unicasts[0].SessionID)
	req.Equal(event.ApplicationSubmitted{JobTitle: "Backend Engineer", ApplicantName: "Alice"},
		f.channel.unicasts[0].Event)
	req.Empty(f.channel.broadcasts)
}

func TestNotifier_SubmitApplication_Offline_Employer_Still_Succeeds(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil)

	jobID, err := f.notifier.PostJob(context.Background(), domain.Job{
		Title:       "Backend Engineer",
		CompanyName: "Initech",
	})
	req.NoError(err)

	// Employer "e@x" never connects
	req.NoError(f.notifier.SubmitApplication(context.Background(), jobID, "Alice", "e@x"))
	req.Empty(f.channel.unicasts)
}

func TestNotifier_SubmitApplication_Unknown_Job(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil)
	f.presence.Register("e@x", uuid.NewString())

	err := f.notifier.SubmitApplication(context.Background(), uuid.New(), "Alice", "e@x")
	req.ErrorIs(err, errors.ErrJobNotFound)
	req.Empty(f.channel.unicasts)
}

func TestNotifier_NotifyEmployer_Policy(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil)

	// Offline employer is a distinct failure on this operation
	err := f.notifier.NotifyEmployer(context.Background(), "e@x", "Backend Engineer", "Alice")
	req.ErrorIs(err, errors.ErrEmployerOffline)

	session := uuid.NewString()
	f.presence.Register("e@x", session)
	req.NoError(f.notifier.NotifyEmployer(context.Background(), "e@x", "Backend Engineer", "Alice"))
	req.Len(f.channel.unicasts, 1)
	req.Equal(session, f.channel.unicasts[0].SessionID)
}

func TestNotifier_SendMessage_Persists_And_Delivers(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil)

	session1 := uuid.NewString()
	session2 := uuid.NewString()
	f.presence.Register("a@x", session1)
	f.presence.Register("b@x", session2)

	message, err := f.notifier.SendMessage(context.Background(), "a@x", "b@x", "hi")
	req.NoError(err)
	req.Equal("a@x_b@x", message.RoomID)

	// Persisted
	history, _, err := f.notifier.History("b@x", "a@x", nil)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal("hi", history[0].Body)

	// Delivered to the receiver's session with the full stored message
	req.Len(f.channel.unicasts, 1)
	req.Equal(session2, f.channel.unicasts[0].SessionID)
	delivered, ok := f.channel.unicasts[0].Event.(event.MessageReceived)
	req.True(ok)
	req.Equal(message.ID, delivered.ID)
	req.Equal("a@x_b@x", delivered.RoomID)
	req.Equal("hi", delivered.Body)

	// C1 disconnects: its presence entry goes, b@x stays
	f.presence.Unregister(session1)
	_, ok = f.presence.Resolve("a@x")
	req.False(ok)
	resolved, ok := f.presence.Resolve("b@x")
	req.True(ok)
	req.Equal(session2, resolved)
}

func TestNotifier_SendMessage_Offline_Receiver_Stored_Only(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil)

	message, err := f.notifier.SendMessage(context.Background(), "a@x", "b@x", "hi")
	req.NoError(err)
	req.Empty(f.channel.unicasts)

	history, _, err := f.notifier.History("a@x", "b@x", nil)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(message.ID, history[0].ID)
}

func TestNotifier_SendMessage_Store_Failure_Aborts_Delivery(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil)
	channel := &recordingChannel{}
	notifier := NewNotifier(failingJobRepo{}, failingMessageRepo{}, f.presence, channel,
		mustModerator(t), observability.NewStats(), slog.Default())
	f.presence.Register("b@x", uuid.NewString())

	_, err := notifier.SendMessage(context.Background(), "a@x", "b@x", "hi")
	req.Error(err)
	req.Empty(channel.unicasts)
}

func TestNotifier_SendMessage_Censors_Body(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, []string{"scam"})

	message, err := f.notifier.SendMessage(context.Background(), "a@x", "b@x", "pure scam")
	req.NoError(err)
	req.Equal("pure ****", message.Body)
}

func mustModerator(t *testing.T) *moderation.Moderator {
	t.Helper()
	moderator, err := moderation.NewModerator(nil, '*', slog.Default())
	require.NoError(t, err)
	return moderator
}
