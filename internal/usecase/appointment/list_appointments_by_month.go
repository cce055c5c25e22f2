package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/dto"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

type ListAppointmentsByMonth struct {
	store *store.Store
	loc   *time.Location
}

func NewListAppointmentsByMonth(st *store.Store, loc *time.Location) *ListAppointmentsByMonth {
	if loc == nil {
		loc = time.UTC
	}
	return &ListAppointmentsByMonth{store: st, loc: loc}
}

func (uc *ListAppointmentsByMonth) Execute(ctx context.Context, year, month int) ([]dto.AppointmentListDTO, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	start, end := timezone.MonthBounds(year, time.Month(month), uc.loc)

	aps, err := appointmentsBetween(ctx, uc.store, start, end)
	if err != nil {
		return nil, err
	}
	return toListDTO(aps), nil
}
