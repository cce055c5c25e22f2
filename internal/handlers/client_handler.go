package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	ucClient "github.com/BruksfildServices01/studio-manager/internal/usecase/client"
)

type ClientHandler struct {
	store *store.Store

	registerUC *ucClient.RegisterClient
	updateUC   *ucClient.UpdateClient
	deleteUC   *ucClient.DeleteClient
	sendUC     *ucClient.SendQuestionnaire
	answerUC   *ucClient.AnswerQuestionnaire
}

func NewClientHandler(
	st *store.Store,
	registerUC *ucClient.RegisterClient,
	updateUC *ucClient.UpdateClient,
	deleteUC *ucClient.DeleteClient,
	sendUC *ucClient.SendQuestionnaire,
	answerUC *ucClient.AnswerQuestionnaire,
) *ClientHandler {
	return &ClientHandler{
		store:      st,
		registerUC: registerUC,
		updateUC:   updateUC,
		deleteUC:   deleteUC,
		sendUC:     sendUC,
		answerUC:   answerUC,
	}
}

// --------- Requests ---------

type CreateClientRequest struct {
	Name          string                `json:"name" binding:"required"`
	Phone         string                `json:"phone" binding:"required"`
	Email         string                `json:"email"`
	CPF           string                `json:"cpf"`
	Questionnaire *models.Questionnaire `json:"questionnaire"`
}

type UpdateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email"`
	CPF     string `json:"cpf"`
	Version int    `json:"version"`
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	clients, err := h.store.Clients().List(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	if query != "" {
		filtered := clients[:0]
		for _, cl := range clients {
			if strings.Contains(strings.ToLower(cl.Name), query) ||
				strings.Contains(cl.Phone, query) ||
				strings.Contains(strings.ToLower(cl.Email), query) {
				filtered = append(filtered, cl)
			}
		}
		clients = filtered
	}

	httpresp.List(c, clients)
}

func (h *ClientHandler) Get(c *gin.Context) {
	cl, err := h.store.Clients().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, cl)
}

// ======================================================
// CREATE / UPDATE / DELETE
// ======================================================
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	cl, err := h.registerUC.Execute(c.Request.Context(), ucClient.RegisterClientInput{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		CPF:           req.CPF,
		Questionnaire: req.Questionnaire,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, cl)
}

func (h *ClientHandler) Update(c *gin.Context) {
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	cl, err := h.updateUC.Execute(c.Request.Context(), c.Param("id"), ucClient.UpdateClientInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		CPF:     req.CPF,
		Version: req.Version,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, cl)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.deleteUC.Execute(c.Request.Context(), c.Param("id")); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}

// ======================================================
// ANAMNESE
// ======================================================
func (h *ClientHandler) SendQuestionnaire(c *gin.Context) {
	cl, err := h.sendUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, cl)
}

func (h *ClientHandler) AnswerQuestionnaire(c *gin.Context) {
	var q models.Questionnaire
	if err := c.ShouldBindJSON(&q); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	cl, err := h.answerUC.Execute(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, cl)
}
