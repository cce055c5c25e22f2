package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

type GetDaySlots struct {
	store *store.Store
	loc   *time.Location
	now   func() time.Time
}

func NewGetDaySlots(st *store.Store, loc *time.Location, now func() time.Time) *GetDaySlots {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &GetDaySlots{store: st, loc: loc, now: now}
}

func (uc *GetDaySlots) Execute(ctx context.Context, date string) ([]domain.TimeSlot, error) {
	day, err := timezone.ParseDate(date, uc.loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", date)
	}
	start, end := timezone.DayBounds(day, uc.loc)

	aps, err := appointmentsBetween(ctx, uc.store, start, end)
	if err != nil {
		return nil, err
	}
	return domain.DaySlots(day, uc.now().In(uc.loc), aps), nil
}
