package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/studio-manager/internal/events"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// Catalog manages the services offered and the products they use.
type Catalog struct {
	store  *store.Store
	ledger *inventory.Ledger
	audit  *audit.Dispatcher
	events events.Publisher
	log    logger.Logger
	now    func() time.Time
}

func New(
	st *store.Store,
	ledger *inventory.Ledger,
	dispatcher *audit.Dispatcher,
	pub events.Publisher,
	log logger.Logger,
) *Catalog {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Catalog{
		store:  st,
		ledger: ledger,
		audit:  dispatcher,
		events: pub,
		log:    log,
		now:    time.Now,
	}
}

type ServiceInput struct {
	Name          string                `json:"name" yaml:"name"`
	Price         decimal.Decimal       `json:"price" yaml:"-"`
	DurationMin   int                   `json:"duration_min" yaml:"duration_min"`
	Description   string                `json:"description" yaml:"description"`
	ProductUsages []models.ProductUsage `json:"product_usages" yaml:"-"`
	Version       int                   `json:"version" yaml:"-"`
}

type ProductInput struct {
	Name        string          `json:"name" yaml:"name"`
	Price       decimal.Decimal `json:"price" yaml:"-"`
	Stock       int             `json:"stock" yaml:"stock"`
	Description string          `json:"description" yaml:"description"`
	Version     int             `json:"version" yaml:"-"`
}

// ======================================================
// Services
// ======================================================

func (c *Catalog) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	svc := &models.Service{}
	if err := c.store.Transaction(ctx, func(tx *store.Store) error {
		if err := applyService(ctx, tx, svc, in); err != nil {
			return err
		}
		return tx.Services().Put(ctx, svc)
	}); err != nil {
		return nil, err
	}

	c.changed(ctx, "service_created", events.TypeCreated, "servicos", "service", svc.ID)
	return svc, nil
}

func (c *Catalog) UpdateService(ctx context.Context, id string, in ServiceInput) (*models.Service, error) {
	var svc *models.Service
	if err := c.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		svc, err = tx.Services().Get(ctx, id)
		if err != nil {
			return err
		}
		if in.Version != 0 {
			svc.Version = in.Version
		}
		if err := applyService(ctx, tx, svc, in); err != nil {
			return err
		}
		return tx.Services().Put(ctx, svc)
	}); err != nil {
		return nil, err
	}

	c.changed(ctx, "service_updated", events.TypeUpdated, "servicos", "service", svc.ID)
	return svc, nil
}

// DeleteService removes a service. Booked appointments keep their snapshot.
func (c *Catalog) DeleteService(ctx context.Context, id string) error {
	if _, err := c.store.Services().Get(ctx, id); err != nil {
		return err
	}
	if err := c.store.Services().Remove(ctx, id); err != nil {
		return err
	}
	c.changed(ctx, "service_deleted", events.TypeDeleted, "servicos", "service", id)
	return nil
}

func applyService(ctx context.Context, tx *store.Store, svc *models.Service, in ServiceInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return httperr.ErrValidation("name_required", "")
	}
	if in.Price.IsNegative() {
		return httperr.ErrValidation("invalid_price", in.Price.String())
	}
	if in.DurationMin <= 0 {
		return httperr.ErrValidation("invalid_duration", "")
	}

	usages := make([]models.ProductUsage, 0, len(in.ProductUsages))
	for _, u := range in.ProductUsages {
		if u.Quantity <= 0 {
			return httperr.ErrValidation("invalid_quantity", u.ProductID)
		}
		if _, err := tx.Products().Get(ctx, u.ProductID); err != nil {
			return err
		}
		usages = append(usages, u)
	}

	svc.Name = name
	svc.Price = in.Price
	svc.DurationMin = in.DurationMin
	svc.Description = strings.TrimSpace(in.Description)
	svc.ProductUsages = usages
	return nil
}

// ======================================================
// Products
// ======================================================

func (c *Catalog) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	if err := applyProduct(p, in); err != nil {
		return nil, err
	}
	if err := c.store.Products().Put(ctx, p); err != nil {
		return nil, err
	}

	c.changed(ctx, "product_created", events.TypeCreated, "produtos", "product", p.ID)
	return p, nil
}

// UpdateProduct edits the product data. Stock changes made here bypass the
// movement trail; use AdjustStock for counted corrections.
func (c *Catalog) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	var p *models.Product
	if err := c.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		p, err = tx.Products().Get(ctx, id)
		if err != nil {
			return err
		}
		if in.Version != 0 {
			p.Version = in.Version
		}
		if err := applyProduct(p, in); err != nil {
			return err
		}
		return tx.Products().Put(ctx, p)
	}); err != nil {
		return nil, err
	}

	c.changed(ctx, "product_updated", events.TypeUpdated, "produtos", "product", p.ID)
	return p, nil
}

func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	if _, err := c.store.Products().Get(ctx, id); err != nil {
		return err
	}
	if err := c.store.Products().Remove(ctx, id); err != nil {
		return err
	}
	c.changed(ctx, "product_deleted", events.TypeDeleted, "produtos", "product", id)
	return nil
}

func (c *Catalog) AdjustStock(ctx context.Context, id string, delta int, reason string) (*models.Product, error) {
	p, err := c.ledger.Adjust(ctx, id, delta, reason)
	if err != nil {
		return nil, err
	}
	c.changed(ctx, "stock_adjusted", events.TypeUpdated, "produtos", "product", p.ID)
	return p, nil
}

func applyProduct(p *models.Product, in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return httperr.ErrValidation("name_required", "")
	}
	if in.Price.IsNegative() {
		return httperr.ErrValidation("invalid_price", in.Price.String())
	}
	if in.Stock < 0 {
		return httperr.ErrValidation("invalid_stock", "")
	}

	p.Name = name
	p.Price = in.Price
	p.Stock = in.Stock
	p.Description = strings.TrimSpace(in.Description)
	return nil
}

func (c *Catalog) changed(ctx context.Context, action, evType, collection, entity, id string) {
	c.audit.Dispatch(audit.Event{Action: action, Entity: entity, EntityID: id})
	if err := c.events.Publish(ctx, events.Event{
		Type:       evType,
		Collection: collection,
		ID:         id,
		At:         c.now(),
	}); err != nil {
		c.log.Warn("change event not published", logger.Fields{"id": id, "error": err})
	}
}
