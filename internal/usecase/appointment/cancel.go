package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

type CancelAppointment struct {
	deps      Deps
	scheduler *SessionScheduler
}

func NewCancelAppointment(deps Deps, scheduler *SessionScheduler) *CancelAppointment {
	return &CancelAppointment{deps: deps.withDefaults(), scheduler: scheduler}
}

func (uc *CancelAppointment) Execute(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	var ap *models.Appointment
	err := uc.deps.Store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		ap, err = tx.Appointments().Get(ctx, appointmentID)
		if err != nil {
			return err
		}
		if err := domain.Cancel(ap, uc.deps.now()); err != nil {
			return err
		}
		return tx.Appointments().Put(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.scheduler.Cancel(ap.ID)
	uc.deps.Metrics.Transitions.WithLabelValues(ap.Status).Inc()
	uc.deps.changed(ctx, "appointment_cancelled", events.TypeStatus, ap, nil)

	return ap, nil
}
