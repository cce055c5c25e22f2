package handlers

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backup"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/spreadsheet"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	ucAppointment "github.com/BruksfildServices01/studio-manager/internal/usecase/appointment"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxImportSize = 32 << 20
)

// ======================================================
// HANDLER
// ======================================================

// ExchangeHandler moves the whole store in and out as an .xlsx workbook.
type ExchangeHandler struct {
	store     *store.Store
	scheduler *ucAppointment.SessionScheduler
	audit     *audit.Dispatcher
	events    events.Publisher
	log       logger.Logger
	now       func() time.Time
}

func NewExchangeHandler(
	st *store.Store,
	scheduler *ucAppointment.SessionScheduler,
	dispatcher *audit.Dispatcher,
	pub events.Publisher,
	log logger.Logger,
) *ExchangeHandler {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &ExchangeHandler{
		store:     st,
		scheduler: scheduler,
		audit:     dispatcher,
		events:    pub,
		log:       log,
		now:       time.Now,
	}
}

// ======================================================
// EXPORT
// ======================================================

func (h *ExchangeHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := spreadsheet.Export(c.Request.Context(), h.store, &buf); err != nil {
		httperr.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+backup.FileName(h.now())+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ======================================================
// IMPORT
// ======================================================

// Import accepts the workbook as the multipart field "file" or as the raw
// request body.
func (h *ExchangeHandler) Import(c *gin.Context) {
	body, err := h.workbook(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Arquivo não enviado.")
		return
	}
	defer body.Close()

	ctx := c.Request.Context()
	snap, err := spreadsheet.Import(ctx, h.store, io.LimitReader(body, maxImportSize))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	if h.scheduler != nil {
		if _, err := h.scheduler.Resync(ctx, h.store); err != nil {
			h.log.Error("session timers not restored after import", logger.Fields{"error": err})
		}
	}

	counts := snap.Counts()
	h.audit.Dispatch(audit.Event{Action: "store_imported", Entity: "store", Metadata: counts})
	if err := h.events.Publish(ctx, events.Event{Type: events.TypeImported, At: h.now()}); err != nil {
		h.log.Warn("change event not published", logger.Fields{"error": err})
	}

	c.JSON(http.StatusOK, gin.H{"imported": counts})
}

func (h *ExchangeHandler) workbook(c *gin.Context) (io.ReadCloser, error) {
	if fh, err := c.FormFile("file"); err == nil {
		return fh.Open()
	}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil, http.ErrMissingFile
	}
	return c.Request.Body, nil
}
