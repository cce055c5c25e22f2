package store

import (
	"context"
	"database/sql"

	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// Snapshot is the whole persisted state, one slice per logical collection.
type Snapshot struct {
	Clients          []models.Client         `json:"clientes"`
	Services         []models.Service        `json:"servicos"`
	Products         []models.Product        `json:"produtos"`
	Appointments     []models.Appointment    `json:"agendamentos"`
	FinancialEntries []models.FinancialEntry `json:"registros_financeiros"`
}

// Snapshot reads the five collections in one transaction, so a write that
// commits meanwhile is either fully in the snapshot or not at all. Postgres
// needs repeatable read for that; a sqlite transaction is serializable.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot

	var opts []*sql.TxOptions
	if !s.tx && s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}

	err := s.transaction(ctx, func(tx *Store) error {
		var err error
		if snap.Clients, err = tx.Clients().List(ctx); err != nil {
			return err
		}
		if snap.Services, err = tx.Services().List(ctx); err != nil {
			return err
		}
		if snap.Products, err = tx.Products().List(ctx); err != nil {
			return err
		}
		if snap.Appointments, err = tx.Appointments().List(ctx); err != nil {
			return err
		}
		snap.FinancialEntries, err = tx.FinancialEntries().List(ctx)
		return err
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Restore replaces the five collections with the snapshot contents in one
// transaction. Ids, insertion order and version stamps are kept as given.
func (s *Store) Restore(ctx context.Context, snap *Snapshot) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Clients().restore(ctx, snap.Clients); err != nil {
			return err
		}
		if err := tx.Services().restore(ctx, snap.Services); err != nil {
			return err
		}
		if err := tx.Products().restore(ctx, snap.Products); err != nil {
			return err
		}
		if err := tx.Appointments().restore(ctx, snap.Appointments); err != nil {
			return err
		}
		return tx.FinancialEntries().restore(ctx, snap.FinancialEntries)
	})
}

// Counts reports how many records each collection of the snapshot holds.
func (snap *Snapshot) Counts() map[string]int {
	return map[string]int{
		"clientes":              len(snap.Clients),
		"servicos":              len(snap.Services),
		"produtos":              len(snap.Products),
		"agendamentos":          len(snap.Appointments),
		"registros_financeiros": len(snap.FinancialEntries),
	}
}
