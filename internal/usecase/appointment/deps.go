package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/metrics"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// Deps are the collaborators shared by the appointment use cases.
type Deps struct {
	Store    *store.Store
	Audit    *audit.Dispatcher
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Log      logger.Logger
	Now      func() time.Time
	Location *time.Location
}

func (d Deps) withDefaults() Deps {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	return d
}

func (d Deps) now() time.Time {
	return d.Now().In(d.Location)
}

// changed records a committed transition in the audit trail and tells
// listeners to refresh.
func (d Deps) changed(ctx context.Context, action, evType string, ap *models.Appointment, meta any) {
	d.Audit.Dispatch(audit.Event{
		Action:   action,
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: meta,
	})

	if err := d.Events.Publish(ctx, events.Event{
		Type:       evType,
		Collection: "agendamentos",
		ID:         ap.ID,
		Status:     ap.Status,
		At:         d.Now(),
	}); err != nil {
		d.Log.Warn("change event not published", logger.Fields{
			"appointment_id": ap.ID,
			"error":          err,
		})
	}
}
