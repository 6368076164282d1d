package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

const checkTimeout = 5 * time.Second

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Check is one named dependency probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// RedisCheck pings the client.
func RedisCheck(client *redis.Client) Check {
	return Check{
		Name: "redis",
		Probe: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// StoreCheck verifies the persisted reminder list can be read and decoded.
func StoreCheck(repo domain.ReminderRepository) Check {
	return Check{
		Name: "store",
		Probe: func(ctx context.Context) error {
			_, err := repo.Load(ctx)
			return err
		},
	}
}

// ChannelCheck fails when the channel cannot list jobs or lacks permission.
func ChannelCheck(ch domain.TriggerChannel) Check {
	return Check{
		Name: "channel." + ch.Name().String(),
		Probe: func(ctx context.Context) error {
			if _, err := ch.ListJobs(ctx); err != nil {
				return err
			}
			perm, err := ch.Permission(ctx)
			if err != nil {
				return err
			}
			if perm != domain.PermissionGranted {
				return fmt.Errorf("notification permission %s", perm)
			}
			return nil
		},
	}
}

type Checker struct {
	checks  []Check
	version string
}

func NewChecker(version string, checks ...Check) *Checker {
	return &Checker{
		checks:  checks,
		version: version,
	}
}

// Check runs every probe and reports unhealthy if any fails.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult, len(c.checks)),
	}

	for _, check := range c.checks {
		start := time.Now()
		if err := check.Probe(checkCtx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[check.Name] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
			continue
		}
		status.Checks[check.Name] = CheckResult{
			Status:    StatusHealthy,
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	return status
}

func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}
