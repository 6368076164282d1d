package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/observability/tracing"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/categorize"
	"github.com/KasumiMercury/primind-reminder-scheduler/internal/service/dispatch"
)

const DefaultConfirmationDelay = 3 * time.Second

// Service owns the reminder list. Every mutation runs as one unit of work
// under a single lock: read, apply, validate, persist, then resync both channels.
type Service struct {
	repo       domain.ReminderRepository
	dispatcher *dispatch.Dispatcher
	ticker     *categorize.Ticker
	metrics    *metrics.SchedulerMetrics

	confirmationDelay time.Duration
	now               func() time.Time
	newID             func() string

	mu sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithConfirmationDelay sets how long after creation the confirmation fires.
// A non-positive delay disables confirmations.
func WithConfirmationDelay(d time.Duration) Option {
	return func(s *Service) {
		s.confirmationDelay = d
	}
}

// WithTicker makes mutations invalidate the categorized snapshot.
func WithTicker(t *categorize.Ticker) Option {
	return func(s *Service) {
		s.ticker = t
	}
}

func NewService(
	repo domain.ReminderRepository,
	dispatcher *dispatch.Dispatcher,
	schedulerMetrics *metrics.SchedulerMetrics,
	opts ...Option,
) *Service {
	s := &Service{
		repo:              repo,
		dispatcher:        dispatcher,
		metrics:           schedulerMetrics,
		confirmationDelay: DefaultConfirmationDelay,
		now:               time.Now,
		newID:             uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start resyncs both channels against the persisted list at process start.
func (s *Service) Start(ctx context.Context) (dispatch.ResyncReport, error) {
	return s.Resync(ctx)
}

// Resync re-registers every job from the persisted list.
func (s *Service) Resync(ctx context.Context) (dispatch.ResyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.repo.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load reminders for resync",
			slog.String("error", err.Error()),
		)
		return dispatch.ResyncReport{}, fmt.Errorf("load reminders: %w", err)
	}

	report := s.dispatcher.ResyncAll(ctx, reminders)
	slog.InfoContext(ctx, "resync completed",
		slog.Int("reminder_count", len(reminders)),
		slog.Bool("degraded", report.Degraded()),
	)

	return report, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Reminder, error) {
	reminders, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	return reminders, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Reminder, error) {
	reminders, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(reminders, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrReminderNotFound, id)
	}
	r := reminders[i].Clone()
	return &r, nil
}

// Categorized returns the latest categorized snapshot.
func (s *Service) Categorized(ctx context.Context) (*categorize.Snapshot, error) {
	if s.ticker != nil {
		return s.ticker.Latest(ctx)
	}

	reminders, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &categorize.Snapshot{
		Buckets:    categorize.Categorize(reminders, now),
		ComputedAt: now,
	}, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Result, error) {
	now := s.now()
	r := domain.NewReminder(s.newID(), in.Message, in.timer(), in.IsIntrusive, in.Recurring, now)

	ctx, span := tracing.StartMutationSpan(ctx, "create", r.ID)
	defer span.End()

	if err := r.Validate(); err != nil {
		s.recordMutation(ctx, "create", "invalid")
		tracing.RecordError(span, err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.repo.Load(ctx)
	if err != nil {
		s.recordMutation(ctx, "create", "failed")
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("load reminders: %w", err)
	}

	reminders = append(reminders, *r)
	if err := s.persist(ctx, reminders); err != nil {
		s.recordMutation(ctx, "create", "failed")
		tracing.RecordError(span, err)
		return nil, err
	}

	result := &Result{
		Reminder: r.Clone(),
		Resync:   s.dispatcher.ResyncAll(ctx, reminders),
	}

	if r.Recurring.IsRecurring() {
		result.ConfirmationJobID = s.scheduleConfirmation(ctx, *r)
	}

	s.recordMutation(ctx, "create", "success")
	slog.InfoContext(ctx, "reminder created",
		slog.String("reminder_id", r.ID),
		slog.Bool("is_intrusive", r.IsIntrusive),
		slog.String("recurring", r.Recurring.String()),
	)

	return result, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*Result, error) {
	ctx, span := tracing.StartMutationSpan(ctx, "update", id)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.repo.Load(ctx)
	if err != nil {
		s.recordMutation(ctx, "update", "failed")
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("load reminders: %w", err)
	}

	i := indexOf(reminders, id)
	if i < 0 {
		s.recordMutation(ctx, "update", "not_found")
		err := fmt.Errorf("%w: %s", domain.ErrReminderNotFound, id)
		tracing.RecordError(span, err)
		return nil, err
	}

	updated := reminders[i].Clone()
	updated.Message = strings.TrimSpace(in.Message)
	updated.Timer = in.timer()
	updated.IsIntrusive = in.IsIntrusive
	updated.Recurring = in.Recurring
	updated.UpdatedAt = s.now()

	if err := updated.Validate(); err != nil {
		s.recordMutation(ctx, "update", "invalid")
		tracing.RecordError(span, err)
		return nil, err
	}

	next := slices.Clone(reminders)
	next[i] = updated
	if err := s.persist(ctx, next); err != nil {
		s.recordMutation(ctx, "update", "failed")
		tracing.RecordError(span, err)
		return nil, err
	}

	s.dispatcher.CancelReminder(ctx, id)

	result := &Result{
		Reminder: updated.Clone(),
		Resync:   s.dispatcher.ResyncAll(ctx, next),
	}

	s.recordMutation(ctx, "update", "success")
	slog.InfoContext(ctx, "reminder updated",
		slog.String("reminder_id", id),
		slog.Bool("is_intrusive", updated.IsIntrusive),
		slog.String("recurring", updated.Recurring.String()),
	)

	return result, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	ctx, span := tracing.StartMutationSpan(ctx, "delete", id)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.repo.Load(ctx)
	if err != nil {
		s.recordMutation(ctx, "delete", "failed")
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("load reminders: %w", err)
	}

	if indexOf(reminders, id) < 0 {
		s.recordMutation(ctx, "delete", "not_found")
		err := fmt.Errorf("%w: %s", domain.ErrReminderNotFound, id)
		tracing.RecordError(span, err)
		return nil, err
	}

	next := slices.DeleteFunc(slices.Clone(reminders), func(r domain.Reminder) bool {
		return r.ID == id
	})
	if err := s.persist(ctx, next); err != nil {
		s.recordMutation(ctx, "delete", "failed")
		tracing.RecordError(span, err)
		return nil, err
	}

	result := &DeleteResult{
		Cancel: s.dispatcher.CancelReminder(ctx, id),
	}
	result.Resync = s.dispatcher.ResyncAll(ctx, next)

	s.recordMutation(ctx, "delete", "success")
	slog.InfoContext(ctx, "reminder deleted",
		slog.String("reminder_id", id),
		slog.Int("jobs_cancelled", len(result.Cancel.Cancelled)),
	)

	return result, nil
}

func (s *Service) persist(ctx context.Context, reminders []domain.Reminder) error {
	if err := s.repo.Save(ctx, reminders); err != nil {
		slog.ErrorContext(ctx, "failed to persist reminders",
			slog.Int("reminder_count", len(reminders)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("save reminders: %w", err)
	}

	if s.ticker != nil {
		s.ticker.Notify()
	}
	return nil
}

// scheduleConfirmation registers the informational job announcing a new
// recurring reminder. It runs after the resync so the resync cannot cancel it.
func (s *Service) scheduleConfirmation(ctx context.Context, r domain.Reminder) string {
	if s.confirmationDelay <= 0 {
		return ""
	}

	at := s.now().Add(s.confirmationDelay)
	payload := ConfirmationPayload(r)

	jobID, err := s.dispatcher.Regular().RegisterOnce(ctx, at, payload)
	if err != nil {
		slog.WarnContext(ctx, "failed to schedule confirmation",
			slog.String("reminder_id", r.ID),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordConfirmation(ctx, "failed")
		}
		return ""
	}

	if s.metrics != nil {
		s.metrics.RecordConfirmation(ctx, "success")
	}
	slog.DebugContext(ctx, "confirmation scheduled",
		slog.String("reminder_id", r.ID),
		slog.String("job_id", jobID),
		slog.Time("at", at),
	)
	return jobID
}

func ConfirmationPayload(r domain.Reminder) domain.Payload {
	return domain.Payload{
		Title:         "✅ Reminder scheduled",
		Body:          fmt.Sprintf("%s (%s)", r.Message, r.Recurring),
		MemberIDs:     []string{r.ID},
		Informational: true,
	}
}

func (s *Service) recordMutation(ctx context.Context, op, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordMutation(ctx, op, outcome)
	}
}

func indexOf(reminders []domain.Reminder, id string) int {
	return slices.IndexFunc(reminders, func(r domain.Reminder) bool {
		return r.ID == id
	})
}
