package appointment

import (
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Start moves the appointment into its session. The session ends at
// now + length, where length comes from the configured policy.
func Start(ap *models.Appointment, now time.Time, length time.Duration) error {
	if err := CanStart(Status(ap.Status)); err != nil {
		return err
	}

	end := now.Add(length)
	ap.Status = string(StatusInProgress)
	ap.ActualStart = &now
	ap.ActualEnd = &end
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	if ap.ActualStart != nil && (ap.ActualEnd == nil || ap.ActualEnd.After(now)) {
		ap.ActualEnd = &now
	}
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

// Override sets any status without guards, stamping the matching timestamp.
// Entering in_progress opens a new session of the given length.
func Override(ap *models.Appointment, to Status, now time.Time, length time.Duration) {
	ap.Status = string(to)
	switch to {
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusInProgress:
		end := now.Add(length)
		ap.ActualStart = &now
		ap.ActualEnd = &end
	}
}

// Overlaps reports whether [start, end) intersects the appointment's slot.
func Overlaps(ap *models.Appointment, start, end time.Time) bool {
	return ap.StartTime.Before(end) && ap.EndTime.After(start)
}
