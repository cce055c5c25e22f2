package appointment

import (
	"strings"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// aliases maps the labels used by the studio's spreadsheet and front desk.
var aliases = map[string]Status{
	"agendado":     StatusScheduled,
	"confirmado":   StatusConfirmed,
	"em-andamento": StatusInProgress,
	"em_andamento": StatusInProgress,
	"realizado":    StatusCompleted,
	"finalizado":   StatusCompleted,
	"cancelado":    StatusCancelled,
}

func ParseStatus(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch st := Status(v); st {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, nil
	}
	if st, ok := aliases[v]; ok {
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_status", s)
}

// Active statuses still hold their time slot.
func (s Status) Active() bool {
	return s == StatusScheduled || s == StatusConfirmed || s == StatusInProgress
}

// ===============================
// Validations
// ===============================

// CanStart define se a sessão pode ser iniciada
func CanStart(current Status) error {
	if current != StatusScheduled && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete define se um agendamento pode ser concluído
func CanComplete(current Status) error {
	if !current.Active() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if current != StatusScheduled && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// InitialStatus is scheduled, or confirmed for bookings made at the front desk.
func InitialStatus(confirmed bool) Status {
	if confirmed {
		return StatusConfirmed
	}
	return StatusScheduled
}
