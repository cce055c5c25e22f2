package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// UpdateStatus is the administrative override: it moves an appointment to
// any status. Moving to completed consumes the booked products first but
// does not record revenue.
type UpdateStatus struct {
	deps      Deps
	ledger    *inventory.Ledger
	policy    domain.SessionPolicy
	scheduler *SessionScheduler
}

func NewUpdateStatus(
	deps Deps,
	ledger *inventory.Ledger,
	policy domain.SessionPolicy,
	scheduler *SessionScheduler,
) *UpdateStatus {
	return &UpdateStatus{
		deps:      deps.withDefaults(),
		ledger:    ledger,
		policy:    policy,
		scheduler: scheduler,
	}
}

func (uc *UpdateStatus) Execute(ctx context.Context, appointmentID, status string) (*models.Appointment, error) {
	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var (
		ap      *models.Appointment
		from    domain.Status
		changed bool
	)
	err = uc.deps.Store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		ap, err = tx.Appointments().Get(ctx, appointmentID)
		if err != nil {
			return err
		}

		from = domain.Status(ap.Status)
		if from == to {
			return nil
		}

		if to == domain.StatusCompleted && len(ap.ProductUsages) > 0 {
			if err := uc.ledger.In(tx).Consume(ctx, []models.ProductUsage(ap.ProductUsages), ap.ID); err != nil {
				return err
			}
		}

		now := uc.deps.now()
		domain.Override(ap, to, now, uc.policy.Length(ap))

		changed = true
		return tx.Appointments().Put(ctx, ap)
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return ap, nil
	}

	if to == domain.StatusInProgress {
		uc.scheduler.Schedule(ap.ID, *ap.ActualEnd)
	} else {
		uc.scheduler.Cancel(ap.ID)
	}

	uc.deps.Log.Info("appointment status overridden", logger.Fields{
		"appointment_id": ap.ID,
		"from":           string(from),
		"to":             string(to),
	})
	uc.deps.Metrics.Transitions.WithLabelValues(ap.Status).Inc()
	uc.deps.changed(ctx, "appointment_status_updated", events.TypeStatus, ap, map[string]string{
		"from": string(from),
		"to":   string(to),
	})

	return ap, nil
}
