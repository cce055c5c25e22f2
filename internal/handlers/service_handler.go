package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
	"github.com/BruksfildServices01/studio-manager/internal/usecase/catalog"
)

type ServiceHandler struct {
	store   *store.Store
	catalog *catalog.Catalog
}

func NewServiceHandler(st *store.Store, cat *catalog.Catalog) *ServiceHandler {
	return &ServiceHandler{store: st, catalog: cat}
}

// --------- Requests ---------

type ServiceRequest struct {
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description"`
	DurationMin   int                   `json:"duration_min" binding:"required,min=1"`
	Price         decimal.Decimal       `json:"price"`
	ProductUsages []models.ProductUsage `json:"product_usages"`
	Version       int                   `json:"version"`
}

func (r ServiceRequest) input() catalog.ServiceInput {
	return catalog.ServiceInput{
		Name:          r.Name,
		Description:   r.Description,
		DurationMin:   r.DurationMin,
		Price:         r.Price,
		ProductUsages: r.ProductUsages,
		Version:       r.Version,
	}
}

// --------- Handlers ---------
func (h *ServiceHandler) List(c *gin.Context) {
	services, err := h.store.Services().List(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	svc, err := h.store.Services().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	svc, err := h.catalog.CreateService(c.Request.Context(), req.input())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	svc, err := h.catalog.UpdateService(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}
