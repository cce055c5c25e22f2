package inventory

import (
	"context"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// Movement reasons written to the stock trail.
const (
	ReasonConsumption = "consumption"
	ReasonAdjustment  = "adjustment"
)

// Ledger owns every change to product stock.
type Ledger struct {
	store *store.Store
	log   logger.Logger
}

func NewLedger(st *store.Store, log logger.Logger) *Ledger {
	if log == nil {
		log = logger.Discard()
	}
	return &Ledger{store: st, log: log}
}

// In returns a ledger bound to tx so its writes join the caller's transaction.
func (l *Ledger) In(tx *store.Store) *Ledger {
	return &Ledger{store: tx, log: l.log}
}

// Consume deducts each usage from its product, in order. Usages naming an
// unknown product are skipped. If any product would go below zero nothing
// is deducted and an insufficient stock error naming that product is returned.
func (l *Ledger) Consume(ctx context.Context, usages []models.ProductUsage, reference string) error {
	for _, u := range usages {
		if u.Quantity <= 0 {
			return httperr.ErrValidation("invalid_quantity", u.ProductID)
		}
	}

	return l.store.Transaction(ctx, func(tx *store.Store) error {
		for _, u := range usages {
			p, err := tx.Products().Get(ctx, u.ProductID)
			if httperr.KindOf(err) == httperr.KindNotFound {
				l.log.Warn("product not found, usage skipped", logger.Fields{
					"product_id": u.ProductID,
					"reference":  reference,
				})
				continue
			}
			if err != nil {
				return err
			}

			if err := apply(ctx, tx, p, -u.Quantity, ReasonConsumption, reference); err != nil {
				return err
			}
		}
		return nil
	})
}

// Adjust applies a manual stock correction (positive for restock).
func (l *Ledger) Adjust(ctx context.Context, productID string, delta int, reason string) (*models.Product, error) {
	if delta == 0 {
		return nil, httperr.ErrValidation("invalid_quantity", productID)
	}
	if reason == "" {
		reason = ReasonAdjustment
	}

	var out *models.Product
	err := l.store.Transaction(ctx, func(tx *store.Store) error {
		p, err := tx.Products().Get(ctx, productID)
		if err != nil {
			return err
		}
		if err := apply(ctx, tx, p, delta, reason, ""); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Movements lists the stock trail of one product, oldest first.
func (l *Ledger) Movements(ctx context.Context, productID string) ([]models.StockMovement, error) {
	if _, err := l.store.Products().Get(ctx, productID); err != nil {
		return nil, err
	}
	return l.store.StockMovements().FindBy(ctx, "product_id", productID)
}

func apply(ctx context.Context, tx *store.Store, p *models.Product, delta int, reason, reference string) error {
	before := p.Stock
	after := before + delta
	if after < 0 {
		return httperr.ErrInsufficientStock(p.ID, p.Name)
	}

	p.Stock = after
	if err := tx.Products().Put(ctx, p); err != nil {
		return err
	}

	return tx.StockMovements().Put(ctx, &models.StockMovement{
		ProductID:   p.ID,
		Delta:       delta,
		StockBefore: before,
		StockAfter:  after,
		Reason:      reason,
		Reference:   reference,
	})
}
