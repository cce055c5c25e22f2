package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/usecase/catalog"
)

type ProductHandler struct {
	store   *store.Store
	catalog *catalog.Catalog
	ledger  *inventory.Ledger
}

func NewProductHandler(st *store.Store, cat *catalog.Catalog, ledger *inventory.Ledger) *ProductHandler {
	return &ProductHandler{store: st, catalog: cat, ledger: ledger}
}

// --------- Requests ---------

type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Version     int             `json:"version"`
}

func (r ProductRequest) input() catalog.ProductInput {
	return catalog.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Version:     r.Version,
	}
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

// --------- Handlers ---------
func (h *ProductHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	products, err := h.store.Products().List(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	if query != "" {
		filtered := products[:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), query) ||
				strings.Contains(strings.ToLower(p.Description), query) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	httpresp.List(c, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.store.Products().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	p, err := h.catalog.CreateProduct(c.Request.Context(), req.input())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	p, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}

// AdjustStock applies a counted correction (delta may be negative).
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	p, err := h.catalog.AdjustStock(c.Request.Context(), c.Param("id"), req.Delta, req.Reason)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *ProductHandler) Movements(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.Products().Get(c.Request.Context(), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	movements, err := h.ledger.Movements(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, movements)
}
