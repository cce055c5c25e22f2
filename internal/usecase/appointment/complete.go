package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/domain/finance"
	"github.com/BruksfildServices01/studio-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// RevenueOptions controls the entry generated on completion.
type RevenueOptions struct {
	AutoRecord    bool
	PaymentMethod string
	Platform      string
}

type CompleteAppointment struct {
	deps      Deps
	ledger    *inventory.Ledger
	recorder  *finance.Recorder
	scheduler *SessionScheduler
	revenue   RevenueOptions
}

func NewCompleteAppointment(
	deps Deps,
	ledger *inventory.Ledger,
	recorder *finance.Recorder,
	scheduler *SessionScheduler,
	revenue RevenueOptions,
) *CompleteAppointment {
	return &CompleteAppointment{
		deps:      deps.withDefaults(),
		ledger:    ledger,
		recorder:  recorder,
		scheduler: scheduler,
		revenue:   revenue,
	}
}

// Execute consumes the booked products, records the revenue (when the
// booked price is positive) and marks the appointment completed, all in one
// transaction. On any failure nothing
// changes, including the appointment status.
func (uc *CompleteAppointment) Execute(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	var (
		ap    *models.Appointment
		entry *models.FinancialEntry
	)

	err := uc.deps.Store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		ap, err = tx.Appointments().Get(ctx, appointmentID)
		if err != nil {
			return err
		}
		if err := domain.CanComplete(domain.Status(ap.Status)); err != nil {
			return err
		}

		if err := uc.ledger.In(tx).Consume(ctx, []models.ProductUsage(ap.ProductUsages), ap.ID); err != nil {
			return err
		}

		if err := domain.Complete(ap, uc.deps.now()); err != nil {
			return err
		}

		// free services leave no revenue entry
		if uc.revenue.AutoRecord && ap.ServicePrice.IsPositive() {
			entry, err = uc.recorder.In(tx).Record(ctx, finance.RevenueFor(ap, uc.revenue.PaymentMethod, uc.revenue.Platform))
			if err != nil {
				return err
			}
			ap.FinancialEntryID = entry.ID
		}

		return tx.Appointments().Put(ctx, ap)
	})
	if err != nil {
		if httperr.KindOf(err) == httperr.KindInsufficientStock {
			uc.deps.Metrics.StockRejections.Inc()
		}
		uc.deps.Log.Warn("appointment not completed", logger.Fields{
			"appointment_id": appointmentID,
			"error":          err,
		})
		return nil, err
	}

	uc.scheduler.Cancel(ap.ID)

	meta := map[string]any{}
	if entry != nil {
		meta["financial_entry_id"] = entry.ID
		meta["amount"] = entry.Amount.String()
		uc.deps.Metrics.RevenueEntries.Inc()
	}

	uc.deps.Log.Info("appointment completed", logger.Fields{
		"appointment_id": ap.ID,
		"entry_id":       ap.FinancialEntryID,
	})
	uc.deps.Metrics.Transitions.WithLabelValues(ap.Status).Inc()
	uc.deps.changed(ctx, "appointment_completed", events.TypeStatus, ap, meta)

	return ap, nil
}

// Expire is the timer entry point. It is a no-op when the appointment left
// in_progress before the timer fired.
func (uc *CompleteAppointment) Expire(ctx context.Context, appointmentID string) error {
	ap, err := uc.deps.Store.Appointments().Get(ctx, appointmentID)
	if err != nil {
		return err
	}
	if domain.Status(ap.Status) != domain.StatusInProgress {
		return nil
	}
	_, err = uc.Execute(ctx, appointmentID)
	return err
}
