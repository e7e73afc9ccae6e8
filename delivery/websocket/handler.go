package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"job-board/contract"
	"job-board/realtime"
	"job-board/services"
)

// Inbound event names. Each maps to one notifier operation; `register`
// alone touches the presence registry.
const (
	eventRegister             = "register"
	eventJobPosted            = "job-posted"
	eventApplicationSubmitted = "application-submitted"
	eventSendMessage          = "send-message"
)

// Handler owns the websocket side of a connection's life: upgrade,
// pumps, event dispatch, and the disconnect cleanup that removes the
// session from both the hub and the presence registry.
type Handler struct {
	hub      *realtime.Hub
	presence contract.IPresence
	notifier services.INotifier
	upgrader websocket.Upgrader
	validate *validator.Validate
	log      *slog.Logger
}

func NewHandler(hub *realtime.Hub, presence contract.IPresence, notifier services.INotifier,
	allowedOrigins []string, log *slog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		presence: presence,
		notifier: notifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		validate: validator.New(),
		log:      log,
	}
}

// originChecker allows the configured origins, or everything when none
// are configured.
func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := lo.SliceToMap(allowedOrigins, func(origin string) (string, struct{}) {
		return origin, struct{}{}
	})
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// Handle upgrades the request and blocks until the client disconnects.
// Reconnect is disconnect plus a fresh connect: the new session gets a
// new id and the client must re-register its identity.
func (h *Handler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade rejected", "error", err)
		return
	}

	client := h.hub.Add(conn)
	go client.WritePump()

	client.ReadPump(func(env realtime.Envelope) {
		h.dispatch(c.Request.Context(), client.ID, env)
	})

	h.hub.Remove(client)
	h.presence.Unregister(client.ID)
}

type applicationSubmittedPayload struct {
	EmployerIdentity string `json:"employerIdentity" validate:"required,email"`
	JobTitle         string `json:"jobTitle" validate:"required"`
	ApplicantName    string `json:"applicantName" validate:"required"`
}

type jobPostedPayload struct {
	Title       string `json:"title" validate:"required"`
	CompanyName string `json:"companyName" validate:"required"`
}

type sendMessagePayload struct {
	SenderIdentity   string `json:"senderIdentity" validate:"required,email"`
	ReceiverIdentity string `json:"receiverIdentity" validate:"required,email"`
	Text             string `json:"text" validate:"required"`
}

// dispatch routes one inbound envelope. Malformed payloads are rejected
// before the registry or the store sees partial data; routing failures on
// this fire-and-forget path are logged and swallowed.
func (h *Handler) dispatch(ctx context.Context, sessionID string, env realtime.Envelope) {
	switch env.Event {
	case eventRegister:
		var identity string
		if err := json.Unmarshal(env.Data, &identity); err != nil {
			h.rejected(sessionID, env.Event, err)
			return
		}
		if err := h.validate.Var(identity, "required,email"); err != nil {
			h.rejected(sessionID, env.Event, err)
			return
		}
		h.presence.Register(identity, sessionID)
		h.log.Info("Identity registered", "identity", identity, "session_id", sessionID)

	case eventJobPosted:
		var payload jobPostedPayload
		if !h.decode(sessionID, env, &payload) {
			return
		}
		if err := h.notifier.NotifyJobPosted(ctx, payload.Title, payload.CompanyName); err != nil {
			h.log.Error("Job announcement failed", "session_id", sessionID, "error", err)
		}

	case eventApplicationSubmitted:
		var payload applicationSubmittedPayload
		if !h.decode(sessionID, env, &payload) {
			return
		}
		err := h.notifier.NotifyEmployer(ctx, payload.EmployerIdentity, payload.JobTitle, payload.ApplicantName)
		if err != nil {
			// Best-effort on the real-time path: an offline employer is
			// steady state, not a failure worth surfacing to the sender.
			h.log.Debug("Application alert not delivered", "employer", payload.EmployerIdentity, "error", err)
		}

	case eventSendMessage:
		var payload sendMessagePayload
		if !h.decode(sessionID, env, &payload) {
			return
		}
		if _, err := h.notifier.SendMessage(ctx, payload.SenderIdentity, payload.ReceiverIdentity, payload.Text); err != nil {
			h.log.Error("Message not stored", "session_id", sessionID, "error", err)
		}

	default:
		h.log.Warn("Unknown inbound event", "session_id", sessionID, "event", env.Event)
	}
}

// decode unmarshals and validates an inbound payload, logging and
// discarding anything incomplete.
func (h *Handler) decode(sessionID string, env realtime.Envelope, payload any) bool {
	if err := json.Unmarshal(env.Data, payload); err != nil {
		h.rejected(sessionID, env.Event, err)
		return false
	}
	if err := h.validate.Struct(payload); err != nil {
		h.rejected(sessionID, env.Event, err)
		return false
	}
	return true
}

func (h *Handler) rejected(sessionID, eventName string, err error) {
	h.log.Warn("Rejecting malformed event", "session_id", sessionID, "event", eventName, "error", err)
}
