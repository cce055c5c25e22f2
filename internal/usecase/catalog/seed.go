package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/store"
)

// SeedFile is the YAML layout of a catalog seed:
//
//	products:
//	  - key: acelerador
//	    name: Acelerador
//	    price: "35.00"
//	    stock: 10
//	services:
//	  - name: Bronzeamento Natural
//	    price: "120.00"
//	    duration_min: 60
//	    uses:
//	      - product: acelerador
//	        quantity: 1
type SeedFile struct {
	Products []SeedProduct `yaml:"products"`
	Services []SeedService `yaml:"services"`
}

type SeedProduct struct {
	Key          string `yaml:"key"`
	ProductInput `yaml:",inline"`
	Price        string `yaml:"price"`
}

type SeedService struct {
	ServiceInput `yaml:",inline"`
	Price        string      `yaml:"price"`
	Uses         []SeedUsage `yaml:"uses"`
}

type SeedUsage struct {
	Product  string `yaml:"product"`
	Quantity int    `yaml:"quantity"`
}

func ParseSeed(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, httperr.ErrValidation("invalid_seed", err.Error())
	}
	return &f, nil
}

// SeedResult counts what a seed created.
type SeedResult struct {
	Products int
	Services int
}

// Seed creates every product and service of f in one transaction. Services
// refer to products by their seed key.
func (c *Catalog) Seed(ctx context.Context, f *SeedFile) (SeedResult, error) {
	var res SeedResult
	err := c.store.Transaction(ctx, func(tx *store.Store) error {
		ids := make(map[string]string, len(f.Products))

		for i, sp := range f.Products {
			in := sp.ProductInput
			price, err := parsePrice(sp.Price)
			if err != nil {
				return httperr.ErrValidation("invalid_price", fmt.Sprintf("products[%d]", i))
			}
			in.Price = price

			p := &models.Product{}
			if err := applyProduct(p, in); err != nil {
				return err
			}
			if err := tx.Products().Put(ctx, p); err != nil {
				return err
			}
			if sp.Key != "" {
				ids[sp.Key] = p.ID
			}
			res.Products++
		}

		for i, ss := range f.Services {
			in := ss.ServiceInput
			price, err := parsePrice(ss.Price)
			if err != nil {
				return httperr.ErrValidation("invalid_price", fmt.Sprintf("services[%d]", i))
			}
			in.Price = price

			for _, u := range ss.Uses {
				id, ok := ids[u.Product]
				if !ok {
					id = u.Product
				}
				in.ProductUsages = append(in.ProductUsages, models.ProductUsage{ProductID: id, Quantity: u.Quantity})
			}

			svc := &models.Service{}
			if err := applyService(ctx, tx, svc, in); err != nil {
				return err
			}
			if err := tx.Services().Put(ctx, svc); err != nil {
				return err
			}
			res.Services++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	c.log.Info("catalog seeded", logger.Fields{"products": res.Products, "services": res.Services})
	return res, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
