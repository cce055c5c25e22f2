package finance

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// Recorder appends financial entries. Stored entries are never changed.
type Recorder struct {
	store *store.Store
	log   logger.Logger
	now   func() time.Time
}

func NewRecorder(st *store.Store, log logger.Logger, now func() time.Time) *Recorder {
	if log == nil {
		log = logger.Discard()
	}
	if now == nil {
		now = time.Now
	}
	return &Recorder{store: st, log: log, now: now}
}

// In returns a recorder bound to tx.
func (r *Recorder) In(tx *store.Store) *Recorder {
	return &Recorder{store: tx, log: r.log, now: r.now}
}

func (r *Recorder) Record(ctx context.Context, e *models.FinancialEntry) (*models.FinancialEntry, error) {
	kind, err := ParseKind(e.Kind)
	if err != nil {
		return nil, err
	}
	if !e.Amount.IsPositive() {
		return nil, httperr.ErrValidation("invalid_amount", e.Amount.String())
	}

	if e.ID != "" {
		_, err := r.store.FinancialEntries().Get(ctx, e.ID)
		if err == nil {
			return nil, httperr.ErrConflict("entry_immutable", e.ID)
		}
		if httperr.KindOf(err) != httperr.KindNotFound {
			return nil, err
		}
	}

	if e.AppointmentID != nil {
		found, err := r.store.FinancialEntries().FindBy(ctx, "appointment_id", *e.AppointmentID)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return nil, httperr.ErrConflict("appointment_already_recorded", *e.AppointmentID)
		}
	}

	e.Kind = kind
	if e.Date.IsZero() {
		e.Date = r.now()
	}
	e.Version = 0

	if err := r.store.FinancialEntries().Put(ctx, e); err != nil {
		return nil, err
	}

	r.log.Info("financial entry recorded", logger.Fields{
		"entry_id": e.ID,
		"kind":     e.Kind,
		"amount":   e.Amount.String(),
	})
	return e, nil
}

// List returns the entries dated in [from, to), oldest insertion first.
func (r *Recorder) List(ctx context.Context, from, to time.Time) ([]models.FinancialEntry, error) {
	all, err := r.store.FinancialEntries().List(ctx)
	if err != nil {
		return nil, err
	}
	return InPeriod(all, from, to), nil
}

func (r *Recorder) Summary(ctx context.Context, from, to time.Time) (Summary, error) {
	entries, err := r.List(ctx, from, to)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(entries), nil
}

// ForAppointment returns the entry generated for an appointment, if any.
func (r *Recorder) ForAppointment(ctx context.Context, appointmentID string) (*models.FinancialEntry, error) {
	found, err := r.store.FinancialEntries().FindBy(ctx, "appointment_id", appointmentID)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, httperr.ErrNotFound("financial_entry_not_found", appointmentID)
	}
	return &found[0], nil
}
