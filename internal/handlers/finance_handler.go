package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/domain/finance"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type FinanceHandler struct {
	recorder *finance.Recorder
	audit    *audit.Dispatcher
	loc      *time.Location
}

func NewFinanceHandler(recorder *finance.Recorder, dispatcher *audit.Dispatcher, loc *time.Location) *FinanceHandler {
	return &FinanceHandler{recorder: recorder, audit: dispatcher, loc: loc}
}

// ======================================================
// REQUESTS
// ======================================================

type RecordEntryRequest struct {
	Kind          string          `json:"kind" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"` // YYYY-MM-DD, default hoje
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
	Platform      string          `json:"platform"`
}

// ======================================================
// RECORD
// ======================================================

func (h *FinanceHandler) Record(c *gin.Context) {
	var req RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	entry := &models.FinancialEntry{
		Kind:          req.Kind,
		Amount:        req.Amount,
		Description:   strings.TrimSpace(req.Description),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Platform:      strings.TrimSpace(req.Platform),
	}

	if req.Date != "" {
		d, err := timezone.ParseDate(req.Date, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		entry.Date = d
	}

	entry, err := h.recorder.Record(c.Request.Context(), entry)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Action:   "financial_entry_recorded",
		Entity:   "financial_entry",
		EntityID: entry.ID,
		Metadata: map[string]any{
			"kind":   entry.Kind,
			"amount": entry.Amount.String(),
		},
	})

	httpresp.Created(c, entry)
}

// ======================================================
// LIST / SUMMARY
// ======================================================

func (h *FinanceHandler) List(c *gin.Context) {
	from, to, ok := periodFromQuery(c, h.loc)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	entries, err := h.recorder.List(c.Request.Context(), from, to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, entries)
}

func (h *FinanceHandler) Summary(c *gin.Context) {
	from, to, ok := periodFromQuery(c, h.loc)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	summary, err := h.recorder.Summary(c.Request.Context(), from, to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, summary)
}
