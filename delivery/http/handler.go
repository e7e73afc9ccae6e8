package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"job-board/domain"
	"job-board/errors"
	"job-board/observability"
	"job-board/services"
)

// Handler is the synchronous facade: pure translation between JSON
// requests and the notifier's operations.
type Handler struct {
	notifier services.INotifier
	stats    *observability.Stats
	log      *slog.Logger
}

func NewHandler(notifier services.INotifier, stats *observability.Stats, log *slog.Logger) *Handler {
	return &Handler{notifier: notifier, stats: stats, log: log}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	v1.POST("/jobs", h.CreateJob)
	v1.POST("/jobs/apply", h.Apply)
	v1.POST("/notifications/employer", h.NotifyEmployer)
	v1.POST("/notifications/job-posted", h.NotifyJobPosted)
	v1.GET("/messages", h.ListMessages)
	v1.GET("/stats", h.Stats)
}

type createJobRequest struct {
	Title       string         `json:"title" binding:"required"`
	CompanyName string         `json:"companyName" binding:"required"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	Extra       map[string]any `json:"extra"`
}

func (h *Handler) CreateJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	id, err := h.notifier.PostJob(c.Request.Context(), domain.Job{
		Title:       req.Title,
		CompanyName: req.CompanyName,
		Location:    req.Location,
		Description: req.Description,
		Extra:       req.Extra,
	})
	if err != nil {
		h.log.Error("Job creation failed", "error", err)
		c.JSON(errors.HTTPStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "insertedId": id})
}

type applyRequest struct {
	JobID            string `json:"jobId" binding:"required,uuid"`
	ApplicantName    string `json:"applicantName" binding:"required"`
	EmployerIdentity string `json:"employerIdentity" binding:"required,email"`
}

func (h *Handler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	jobID := uuid.MustParse(req.JobID)
	if err := h.notifier.SubmitApplication(c.Request.Context(), jobID, req.ApplicantName, req.EmployerIdentity); err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type notifyEmployerRequest struct {
	EmployerIdentity string `json:"employerIdentity" binding:"required,email"`
	JobTitle         string `json:"jobTitle" binding:"required"`
	ApplicantName    string `json:"applicantName" binding:"required"`
}

// NotifyEmployer promises delivery confirmation: an offline employer is a
// 404, not a silent success. See DESIGN.md for the policy choice.
func (h *Handler) NotifyEmployer(c *gin.Context) {
	var req notifyEmployerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.notifier.NotifyEmployer(c.Request.Context(), req.EmployerIdentity, req.JobTitle, req.ApplicantName); err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type notifyJobPostedRequest struct {
	Title       string `json:"title" binding:"required"`
	CompanyName string `json:"companyName" binding:"required"`
}

// NotifyJobPosted broadcasts without persisting; the announcement-only
// variant of job posting. Always succeeds, even with zero connections.
func (h *Handler) NotifyJobPosted(c *gin.Context) {
	var req notifyJobPostedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.notifier.NotifyJobPosted(c.Request.Context(), req.Title, req.CompanyName); err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type listMessagesQuery struct {
	User1  string  `form:"user1" binding:"required,email"`
	User2  string  `form:"user2" binding:"required,email"`
	Cursor *string `form:"cursor"`
}

// ListMessages serves the pull-based backfill: a reconnecting client
// fetches the conversation page it missed while offline.
func (h *Handler) ListMessages(c *gin.Context) {
	var query listMessagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	messages, cursor, err := h.notifier.History(query.User1, query.User2, query.Cursor)
	if err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": messages, "cursor": cursor})
}

func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Snapshot())
}
