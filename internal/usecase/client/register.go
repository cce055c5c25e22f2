package client

import (
	"context"

	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/client"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/validators"
)

type RegisterClientInput struct {
	Name  string
	Phone string
	Email string
	CPF   string

	// Optional answers filled at the front desk.
	Questionnaire *models.Questionnaire
}

type RegisterClient struct {
	deps        Deps
	checkDomain bool
}

// NewRegisterClient builds the use case. checkDomain turns on the DNS
// lookup of e-mail domains.
func NewRegisterClient(deps Deps, checkDomain bool) *RegisterClient {
	return &RegisterClient{deps: deps.withDefaults(), checkDomain: checkDomain}
}

func (uc *RegisterClient) Execute(ctx context.Context, in RegisterClientInput) (*models.Client, error) {
	contact, err := domain.NormalizeContact(domain.Contact{
		Name:  in.Name,
		Phone: in.Phone,
		Email: in.Email,
		CPF:   in.CPF,
	})
	if err != nil {
		return nil, err
	}
	if uc.checkDomain && contact.Email != "" && !validators.IsEmailDomainValid(contact.Email) {
		return nil, httperr.ErrValidation("invalid_email_domain", contact.Email)
	}

	c := &models.Client{
		Name:              contact.Name,
		Phone:             contact.Phone,
		Email:             contact.Email,
		CPF:               contact.CPF,
		Contraindications: datatypes.JSONSlice[string]{},
	}
	if in.Questionnaire != nil {
		if err := domain.ApplyQuestionnaire(c, *in.Questionnaire); err != nil {
			return nil, err
		}
	}

	err = uc.deps.Store.Transaction(ctx, func(tx *store.Store) error {
		if err := assertPhoneFree(ctx, tx, c.Phone, ""); err != nil {
			return err
		}
		return tx.Clients().Put(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	uc.deps.Log.Info("client registered", logger.Fields{"client_id": c.ID})
	uc.deps.changed(ctx, "client_created", events.TypeCreated, c)
	return c, nil
}

func assertPhoneFree(ctx context.Context, tx *store.Store, phone, selfID string) error {
	same, err := tx.Clients().FindBy(ctx, "phone", phone)
	if err != nil {
		return err
	}
	for _, other := range same {
		if other.ID != selfID {
			return httperr.ErrConflict("client_phone_exists", phone)
		}
	}
	return nil
}
