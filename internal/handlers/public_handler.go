package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/middleware"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	ucClient "github.com/BruksfildServices01/studio-manager/internal/usecase/client"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the questionnaire link opened by the client. The
// QuestionnaireToken middleware resolves the client before these run.
type PublicHandler struct {
	store    *store.Store
	answerUC *ucClient.AnswerQuestionnaire
	business string
}

func NewPublicHandler(st *store.Store, answerUC *ucClient.AnswerQuestionnaire, business string) *PublicHandler {
	return &PublicHandler{store: st, answerUC: answerUC, business: business}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicQuestionnaireResponse struct {
	Business      string                `json:"business"`
	ClientName    string                `json:"client_name"`
	Answered      bool                  `json:"answered"`
	Questionnaire *models.Questionnaire `json:"questionnaire,omitempty"`
}

////////////////////////////////////////////////////////
// QUESTIONNAIRE
////////////////////////////////////////////////////////

func (h *PublicHandler) GetQuestionnaire(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextClientID).(string)

	cl, err := h.store.Clients().Get(c.Request.Context(), clientID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	resp := PublicQuestionnaireResponse{
		Business:   h.business,
		ClientName: cl.Name,
		Answered:   cl.QuestionnaireAnswered,
	}
	if cl.QuestionnaireAnswered {
		q := cl.Questionnaire.Data()
		resp.Questionnaire = &q
	}

	httpresp.OK(c, resp)
}

func (h *PublicHandler) AnswerQuestionnaire(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextClientID).(string)

	var q models.Questionnaire
	if err := c.ShouldBindJSON(&q); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	cl, err := h.answerUC.Execute(c.Request.Context(), clientID, q)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, PublicQuestionnaireResponse{
		Business:   h.business,
		ClientName: cl.Name,
		Answered:   cl.QuestionnaireAnswered,
	})
}
