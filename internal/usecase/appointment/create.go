package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/domain/client"
	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID  string
	ServiceID string

	// Either Start, or Date ("2006-01-02") and Time ("15:04") in the
	// studio timezone.
	Start time.Time
	Date  string
	Time  string

	Notes string

	// Front desk bookings are confirmed on creation.
	Confirmed bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	deps Deps
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	return &CreateAppointment{deps: deps.withDefaults()}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Data / hora no timezone do estúdio
	// --------------------------------------------------
	start := in.Start
	if start.IsZero() {
		var err error
		start, err = timezone.ParseDateTime(in.Date, in.Time, uc.deps.Location)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_date_or_time", in.Date+" "+in.Time)
		}
	}

	now := uc.deps.now()
	if !start.After(now) {
		return nil, httperr.ErrValidation("past_time_slot", start.Format(time.RFC3339))
	}

	var ap *models.Appointment
	err := uc.deps.Store.Transaction(ctx, func(tx *store.Store) error {

		// --------------------------------------------------
		// Cliente e contraindicações
		// --------------------------------------------------
		cl, err := tx.Clients().Get(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client.HasBlockingContraindications(cl) {
			return httperr.ErrValidation(
				"blocking_contraindications",
				strings.Join(cl.Contraindications, "; "),
			)
		}

		// --------------------------------------------------
		// Serviço
		// --------------------------------------------------
		svc, err := tx.Services().Get(ctx, in.ServiceID)
		if err != nil {
			return err
		}

		end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

		// --------------------------------------------------
		// Conflito de horário
		// --------------------------------------------------
		if err := assertNoTimeConflict(ctx, tx, start, end); err != nil {
			return err
		}

		// --------------------------------------------------
		// Criação com snapshot do serviço
		// --------------------------------------------------
		usages := make([]models.ProductUsage, len(svc.ProductUsages))
		copy(usages, svc.ProductUsages)

		ap = &models.Appointment{
			ClientID:           cl.ID,
			ClientName:         cl.Name,
			ServiceID:          svc.ID,
			ServiceName:        svc.Name,
			ServicePrice:       svc.Price,
			ServiceDurationMin: svc.DurationMin,
			ProductUsages:      usages,
			StartTime:          start,
			EndTime:            end,
			Status:             string(domain.InitialStatus(in.Confirmed)),
			Notes:              strings.TrimSpace(in.Notes),
		}
		return tx.Appointments().Put(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.deps.Log.Info("appointment created", logger.Fields{
		"appointment_id": ap.ID,
		"client_id":      ap.ClientID,
		"start":          ap.StartTime,
	})
	uc.deps.Metrics.Transitions.WithLabelValues(ap.Status).Inc()
	uc.deps.changed(ctx, "appointment_created", events.TypeCreated, ap, nil)

	return ap, nil
}

func assertNoTimeConflict(ctx context.Context, tx *store.Store, start, end time.Time) error {
	all, err := tx.Appointments().List(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if domain.Status(all[i].Status).Active() && domain.Overlaps(&all[i], start, end) {
			return httperr.ErrConflict("time_conflict", all[i].ID)
		}
	}
	return nil
}
