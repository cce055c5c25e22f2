package store

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// Store is the record store of the console: one collection per entity,
// backed by gorm. It is built explicitly with Open and released with Close.
type Store struct {
	db  *gorm.DB
	seq *sequence
	log logger.Logger
	tx  bool
}

type Option func(*Store)

func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// sequenced lists the tables whose seq column feeds the insertion order.
var sequenced = []any{
	&models.Client{},
	&models.Service{},
	&models.Product{},
	&models.Appointment{},
	&models.FinancialEntry{},
	&models.StockMovement{},
}

// Open wraps an already migrated database and resumes the insertion sequence.
func Open(ctx context.Context, db *gorm.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}

	var start int64
	for _, m := range sequenced {
		var max sql.NullInt64
		if err := db.WithContext(ctx).Model(m).Select("MAX(seq)").Row().Scan(&max); err != nil {
			return nil, httperr.ErrPersistence("open store", err)
		}
		if max.Valid && max.Int64 > start {
			start = max.Int64
		}
	}
	s.seq = newSequenceAt(start)

	s.log.Debug("store opened", logger.Fields{"seq": start})
	return s, nil
}

func (s *Store) Close() error {
	if s.tx {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the underlying handle for collaborators that keep their own
// tables (audit logs).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a store bound to one database transaction.
// Every write made through tx commits together or not at all. Nested calls
// use savepoints.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.transaction(ctx, fn)
}

func (s *Store) transaction(ctx context.Context, fn func(tx *Store) error, opts ...*sql.TxOptions) error {
	err := s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Store{db: gtx, seq: s.seq, log: s.log, tx: true})
	}, opts...)
	if err != nil {
		return httperr.ErrPersistence("transaction", err)
	}
	return nil
}

func (s *Store) Clients() *Collection[models.Client, *models.Client] {
	return newCollection[models.Client](s, "client")
}

func (s *Store) Services() *Collection[models.Service, *models.Service] {
	return newCollection[models.Service](s, "service")
}

func (s *Store) Products() *Collection[models.Product, *models.Product] {
	return newCollection[models.Product](s, "product")
}

func (s *Store) Appointments() *Collection[models.Appointment, *models.Appointment] {
	return newCollection[models.Appointment](s, "appointment")
}

func (s *Store) FinancialEntries() *Collection[models.FinancialEntry, *models.FinancialEntry] {
	return newCollection[models.FinancialEntry](s, "financial_entry")
}

func (s *Store) StockMovements() *Collection[models.StockMovement, *models.StockMovement] {
	return newCollection[models.StockMovement](s, "stock_movement")
}
