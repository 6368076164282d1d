package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/dispatch"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/reminder"
)

// reminderRequest mirrors the persisted field names. timer and recurring may
// be null.
type reminderRequest struct {
	Message     string     `json:"message"`
	Timer       *time.Time `json:"timer"`
	IsIntrusive bool       `json:"isIntrusive"`
	Recurring   *string    `json:"recurring"`
}

func (r *reminderRequest) input() reminder.Input {
	in := reminder.Input{
		Message:     r.Message,
		Timer:       r.Timer,
		IsIntrusive: r.IsIntrusive,
	}
	if r.Recurring != nil {
		in.Recurring = domain.Recurrence(*r.Recurring)
	}
	return in
}

type reminderResponse struct {
	ID          string     `json:"id"`
	Message     string     `json:"message"`
	Timer       *time.Time `json:"timer"`
	IsIntrusive bool       `json:"isIntrusive"`
	Recurring   *string    `json:"recurring"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newReminderResponse(r domain.Reminder) reminderResponse {
	resp := reminderResponse{
		ID:          r.ID,
		Message:     r.Message,
		Timer:       r.Timer,
		IsIntrusive: r.IsIntrusive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Recurring.IsRecurring() {
		recurring := r.Recurring.String()
		resp.Recurring = &recurring
	}
	return resp
}

type mutationResponse struct {
	Reminder          reminderResponse      `json:"reminder"`
	Resync            dispatch.ResyncReport `json:"resync"`
	Degraded          bool                  `json:"degraded"`
	ConfirmationJobID string                `json:"confirmation_job_id,omitempty"`
}

func newMutationResponse(res *reminder.Result) mutationResponse {
	return mutationResponse{
		Reminder:          newReminderResponse(res.Reminder),
		Resync:            res.Resync,
		Degraded:          res.Resync.Degraded(),
		ConfirmationJobID: res.ConfirmationJobID,
	}
}

type deleteResponse struct {
	Cancel   dispatch.CancelReport `json:"cancel"`
	Resync   dispatch.ResyncReport `json:"resync"`
	Degraded bool                  `json:"degraded"`
}

type ReminderHandler struct {
	reminderService *reminder.Service
}

func NewReminderHandler(reminderService *reminder.Service) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
	}
}

func (h *ReminderHandler) HandleList(c *gin.Context) {
	reminders, err := h.reminderService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": toResponses(reminders)})
}

func (h *ReminderHandler) HandleGet(c *gin.Context) {
	r, err := h.reminderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReminderResponse(*r))
}

func (h *ReminderHandler) HandleCategorized(c *gin.Context) {
	snapshot, err := h.reminderService.Categorized(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	buckets := gin.H{
		"recurring": toResponses(snapshot.Buckets.Recurring),
		"today":     toResponses(snapshot.Buckets.Today),
		"upcoming":  toResponses(snapshot.Buckets.Upcoming),
		"past":      toResponses(snapshot.Buckets.Past),
	}
	c.JSON(http.StatusOK, gin.H{
		"buckets":     buckets,
		"total":       snapshot.Buckets.Total(),
		"computed_at": snapshot.ComputedAt,
	})
}

func (h *ReminderHandler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.reminderService.Create(ctx, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMutationResponse(res))
}

func (h *ReminderHandler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.reminderService.Update(ctx, c.Param("id"), req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMutationResponse(res))
}

func (h *ReminderHandler) HandleDelete(c *gin.Context) {
	res, err := h.reminderService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleteResponse{
		Cancel:   res.Cancel,
		Resync:   res.Resync,
		Degraded: res.Resync.Degraded(),
	})
}

func toResponses(reminders []domain.Reminder) []reminderResponse {
	resp := make([]reminderResponse, 0, len(reminders))
	for _, r := range reminders {
		resp = append(resp, newReminderResponse(r))
	}
	return resp
}
