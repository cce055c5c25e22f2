package client

import (
	"context"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/client"
	appdomain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

type UpdateClientInput struct {
	Name  string
	Phone string
	Email string
	CPF   string

	// Version, when set, must match the stored record.
	Version int
}

type UpdateClient struct {
	deps Deps
}

func NewUpdateClient(deps Deps) *UpdateClient {
	return &UpdateClient{deps: deps.withDefaults()}
}

func (uc *UpdateClient) Execute(ctx context.Context, id string, in UpdateClientInput) (*models.Client, error) {
	contact, err := domain.NormalizeContact(domain.Contact{
		Name:  in.Name,
		Phone: in.Phone,
		Email: in.Email,
		CPF:   in.CPF,
	})
	if err != nil {
		return nil, err
	}

	var c *models.Client
	err = uc.deps.Store.Transaction(ctx, func(tx *store.Store) error {
		c, err = tx.Clients().Get(ctx, id)
		if err != nil {
			return err
		}
		if in.Version != 0 {
			c.Version = in.Version
		}
		if err := assertPhoneFree(ctx, tx, contact.Phone, c.ID); err != nil {
			return err
		}

		c.Name = contact.Name
		c.Phone = contact.Phone
		c.Email = contact.Email
		c.CPF = contact.CPF
		return tx.Clients().Put(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	uc.deps.changed(ctx, "client_updated", events.TypeUpdated, c)
	return c, nil
}

type DeleteClient struct {
	deps Deps
}

func NewDeleteClient(deps Deps) *DeleteClient {
	return &DeleteClient{deps: deps.withDefaults()}
}

// Execute removes the client unless it still holds an active appointment.
func (uc *DeleteClient) Execute(ctx context.Context, id string) error {
	var c *models.Client
	err := uc.deps.Store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		c, err = tx.Clients().Get(ctx, id)
		if err != nil {
			return err
		}

		aps, err := tx.Appointments().FindBy(ctx, "client_id", id)
		if err != nil {
			return err
		}
		for _, ap := range aps {
			if appdomain.Status(ap.Status).Active() {
				return httperr.ErrConflict("client_has_active_appointments", ap.ID)
			}
		}
		return tx.Clients().Remove(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.deps.changed(ctx, "client_deleted", events.TypeDeleted, c)
	return nil
}
