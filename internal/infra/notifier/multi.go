package notifier

import (
	"context"
	"errors"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

type multiNotifier struct {
	notifiers []domain.Notifier
}

// NewMulti fans a delivery out to every notifier. All are attempted; errors are joined.
func NewMulti(notifiers ...domain.Notifier) domain.Notifier {
	filtered := make([]domain.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			filtered = append(filtered, n)
		}
	}
	return &multiNotifier{notifiers: filtered}
}

func (m *multiNotifier) Notify(ctx context.Context, d domain.Delivery) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
