package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/dto"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

type ListAppointmentsByDate struct {
	store *store.Store
	loc   *time.Location
}

func NewListAppointmentsByDate(st *store.Store, loc *time.Location) *ListAppointmentsByDate {
	if loc == nil {
		loc = time.UTC
	}
	return &ListAppointmentsByDate{store: st, loc: loc}
}

// Execute lists the appointments of one day ("2006-01-02"), by start time.
func (uc *ListAppointmentsByDate) Execute(ctx context.Context, date string) ([]dto.AppointmentListDTO, error) {
	day, err := timezone.ParseDate(date, uc.loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", date)
	}
	start, end := timezone.DayBounds(day, uc.loc)

	aps, err := appointmentsBetween(ctx, uc.store, start, end)
	if err != nil {
		return nil, err
	}
	return toListDTO(aps), nil
}

// appointmentsBetween returns the appointments starting in [start, end),
// ordered by start time.
func appointmentsBetween(ctx context.Context, st *store.Store, start, end time.Time) ([]models.Appointment, error) {
	all, err := st.Appointments().List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Appointment, 0)
	for _, ap := range all {
		if !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, ap)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func toListDTO(aps []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, dto.NewAppointmentListDTO(ap))
	}
	return out
}
