package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type AppointmentListDTO struct {
	ID           string          `json:"id"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Status       string          `json:"status"`
	ClientID     string          `json:"client_id"`
	ClientName   string          `json:"client_name"`
	ServiceName  string          `json:"service_name"`
	ServicePrice decimal.Decimal `json:"service_price"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:           ap.ID,
		StartTime:    ap.StartTime,
		EndTime:      ap.EndTime,
		Status:       ap.Status,
		ClientID:     ap.ClientID,
		ClientName:   ap.ClientName,
		ServiceName:  ap.ServiceName,
		ServicePrice: ap.ServicePrice,
	}
}
