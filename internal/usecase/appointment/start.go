package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

type StartSession struct {
	deps      Deps
	policy    domain.SessionPolicy
	scheduler *SessionScheduler
}

func NewStartSession(deps Deps, policy domain.SessionPolicy, scheduler *SessionScheduler) *StartSession {
	return &StartSession{
		deps:      deps.withDefaults(),
		policy:    policy,
		scheduler: scheduler,
	}
}

func (uc *StartSession) Execute(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	var ap *models.Appointment
	err := uc.deps.Store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		ap, err = tx.Appointments().Get(ctx, appointmentID)
		if err != nil {
			return err
		}
		if err := domain.Start(ap, uc.deps.now(), uc.policy.Length(ap)); err != nil {
			return err
		}
		return tx.Appointments().Put(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.scheduler.Schedule(ap.ID, *ap.ActualEnd)

	uc.deps.Log.Info("session started", logger.Fields{
		"appointment_id": ap.ID,
		"ends_at":        *ap.ActualEnd,
	})
	uc.deps.Metrics.Transitions.WithLabelValues(ap.Status).Inc()
	uc.deps.changed(ctx, "appointment_started", events.TypeStatus, ap, nil)

	return ap, nil
}
