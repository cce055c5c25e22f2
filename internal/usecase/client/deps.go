package client

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

type Deps struct {
	Store  *store.Store
	Audit  *audit.Dispatcher
	Events events.Publisher
	Log    logger.Logger
	Now    func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) changed(ctx context.Context, action, evType string, c *models.Client) {
	d.Audit.Dispatch(audit.Event{
		Action:   action,
		Entity:   "client",
		EntityID: c.ID,
	})
	if err := d.Events.Publish(ctx, events.Event{
		Type:       evType,
		Collection: "clientes",
		ID:         c.ID,
		At:         d.Now(),
	}); err != nil {
		d.Log.Warn("change event not published", logger.Fields{"client_id": c.ID, "error": err})
	}
}
