package appointment

import (
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// Studio day grid.
const (
	DayOpensAt  = 8 * time.Hour
	DayClosesAt = 20 * time.Hour
	SlotLength  = 30 * time.Minute
)

type TimeSlot struct {
	Start         string              `json:"start"`
	End           string              `json:"end"`
	Available     bool                `json:"available"`
	Past          bool                `json:"past"`
	AppointmentID string              `json:"appointment_id,omitempty"`
	Appointment   *models.Appointment `json:"appointment,omitempty"`
}

// DaySlots builds the 30 minute grid of one day. day must carry the studio
// location. Slots that started before now are unavailable; a slot touched
// by an active appointment shows it.
func DaySlots(day time.Time, now time.Time, appointments []models.Appointment) []TimeSlot {
	loc := day.Location()
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	var slots []TimeSlot
	for cur := midnight.Add(DayOpensAt); cur.Before(midnight.Add(DayClosesAt)); cur = cur.Add(SlotLength) {
		end := cur.Add(SlotLength)
		slot := TimeSlot{
			Start:     cur.Format("15:04"),
			End:       end.Format("15:04"),
			Available: true,
		}

		if cur.Before(now) {
			slot.Past = true
			slot.Available = false
		}

		for i := range appointments {
			ap := &appointments[i]
			if !Status(ap.Status).Active() && Status(ap.Status) != StatusCompleted {
				continue
			}
			if Overlaps(ap, cur, end) {
				slot.Available = false
				slot.AppointmentID = ap.ID
				slot.Appointment = ap
				break
			}
		}

		slots = append(slots, slot)
	}
	return slots
}
