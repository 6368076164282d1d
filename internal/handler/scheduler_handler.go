package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/alarm"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/reminder"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/status"
)

// SchedulerHandler exposes resync, channel status and the ringing alarm.
type SchedulerHandler struct {
	reminderService *reminder.Service
	reporter        *status.Reporter
	tracker         *alarm.Tracker
}

func NewSchedulerHandler(reminderService *reminder.Service, reporter *status.Reporter, tracker *alarm.Tracker) *SchedulerHandler {
	return &SchedulerHandler{
		reminderService: reminderService,
		reporter:        reporter,
		tracker:         tracker,
	}
}

func (h *SchedulerHandler) HandleResync(c *gin.Context) {
	report, err := h.reminderService.Resync(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"resync":   report,
		"degraded": report.Degraded(),
	})
}

func (h *SchedulerHandler) HandleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.reporter.Report(c.Request.Context()))
}

func (h *SchedulerHandler) HandleAlarm(c *gin.Context) {
	active, ok := h.tracker.Current()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": true, "alarm": active})
}

type stopAlarmRequest struct {
	JobID string `json:"job_id"`
}

// HandleStopAlarm silences the ringing alarm. The body is optional; without a
// job_id whichever alarm is ringing is stopped.
func (h *SchedulerHandler) HandleStopAlarm(c *gin.Context) {
	ctx := c.Request.Context()

	var req stopAlarmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}

	stopped, err := h.tracker.Stop(ctx, req.JobID)
	switch {
	case errors.Is(err, alarm.ErrNoActiveAlarm):
		respondError(c, http.StatusNotFound, "no_active_alarm", err.Error())
		return
	case errors.Is(err, alarm.ErrAlarmMismatch):
		slog.WarnContext(ctx, "alarm stop rejected",
			slog.String("job_id", req.JobID),
		)
		respondError(c, http.StatusConflict, "alarm_mismatch", err.Error())
		return
	case err != nil:
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stopped": stopped})
}
