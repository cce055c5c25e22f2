package client

import (
	"context"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/client"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

type SendQuestionnaire struct {
	deps      Deps
	signer    *LinkSigner
	messenger Messenger
	business  string
}

func NewSendQuestionnaire(deps Deps, signer *LinkSigner, messenger Messenger, business string) *SendQuestionnaire {
	return &SendQuestionnaire{
		deps:      deps.withDefaults(),
		signer:    signer,
		messenger: messenger,
		business:  business,
	}
}

// Execute sends the questionnaire link to the client and marks it sent.
// Nothing is stored when delivery fails.
func (uc *SendQuestionnaire) Execute(ctx context.Context, clientID string) (*models.Client, error) {
	c, err := uc.deps.Store.Clients().Get(ctx, clientID)
	if err != nil {
		return nil, err
	}

	link, err := uc.signer.Link(c.ID)
	if err != nil {
		return nil, err
	}

	body := questionnaireMessage(c.Name, link, uc.business)
	if err := uc.messenger.Send(ctx, internationalPhone(c.Phone), body); err != nil {
		uc.deps.Log.Error("questionnaire not delivered", logger.Fields{"client_id": c.ID, "error": err})
		return nil, err
	}

	c.QuestionnaireLink = link
	c.QuestionnaireSent = true
	if err := uc.deps.Store.Clients().Put(ctx, c); err != nil {
		return nil, err
	}

	uc.deps.changed(ctx, "questionnaire_sent", events.TypeUpdated, c)
	return c, nil
}

type AnswerQuestionnaire struct {
	deps   Deps
	signer *LinkSigner
}

func NewAnswerQuestionnaire(deps Deps, signer *LinkSigner) *AnswerQuestionnaire {
	return &AnswerQuestionnaire{deps: deps.withDefaults(), signer: signer}
}

func (uc *AnswerQuestionnaire) Execute(ctx context.Context, clientID string, q models.Questionnaire) (*models.Client, error) {
	var c *models.Client
	err := uc.deps.Store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		c, err = tx.Clients().Get(ctx, clientID)
		if err != nil {
			return err
		}
		if err := domain.ApplyQuestionnaire(c, q); err != nil {
			return err
		}
		return tx.Clients().Put(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	uc.deps.Log.Info("questionnaire answered", logger.Fields{
		"client_id":         c.ID,
		"contraindications": len(c.Contraindications),
	})
	uc.deps.changed(ctx, "questionnaire_answered", events.TypeUpdated, c)
	return c, nil
}

// ExecuteWithToken answers through the public link.
func (uc *AnswerQuestionnaire) ExecuteWithToken(ctx context.Context, token string, q models.Questionnaire) (*models.Client, error) {
	clientID, err := uc.signer.ClientID(token)
	if err != nil {
		return nil, err
	}
	return uc.Execute(ctx, clientID, q)
}
