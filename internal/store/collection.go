package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/logger"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// Collection is the typed view of one entity table.
type Collection[T any, PT interface {
	*T
	models.Record
}] struct {
	s      *Store
	entity string
}

func newCollection[T any, PT interface {
	*T
	models.Record
}](s *Store, entity string) *Collection[T, PT] {
	return &Collection[T, PT]{s: s, entity: entity}
}

func (c *Collection[T, PT]) notFound(id string) error {
	return httperr.ErrNotFound(c.entity+"_not_found", id)
}

func (c *Collection[T, PT]) fail(op string, err error) error {
	c.s.log.Error("store operation failed", logger.Fields{
		"entity": c.entity,
		"op":     op,
		"error":  err,
	})
	return httperr.ErrPersistence(c.entity+" "+op, err)
}

// Put inserts rec, assigning a fresh id when it has none, or replaces the
// stored record with the same id. A non-zero Version must match the stored
// one; the stamp is bumped on every successful write.
func (c *Collection[T, PT]) Put(ctx context.Context, rec PT) error {
	b := rec.RecordBase()
	db := c.s.db.WithContext(ctx)

	if b.ID == "" {
		b.ID = uuid.NewString()
		return c.insert(db, rec)
	}

	var current T
	err := db.Select("id", "seq", "version", "created_at").
		Where("id = ?", b.ID).
		Take(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.insert(db, rec)
	}
	if err != nil {
		return c.fail("put", err)
	}

	cur := PT(&current).RecordBase()
	if b.Version != 0 && b.Version != cur.Version {
		return httperr.ErrConflict("version_conflict", c.entity+" "+b.ID)
	}

	prev := *b
	b.Seq = cur.Seq
	b.CreatedAt = cur.CreatedAt
	b.Version = cur.Version + 1

	res := db.Model(rec).
		Where("version = ?", cur.Version).
		Select("*").
		Updates(rec)
	if res.Error != nil {
		*b = prev
		return c.fail("put", res.Error)
	}
	if res.RowsAffected == 0 {
		*b = prev
		return httperr.ErrConflict("version_conflict", c.entity+" "+b.ID)
	}
	return nil
}

func (c *Collection[T, PT]) insert(db *gorm.DB, rec PT) error {
	b := rec.RecordBase()
	if b.Seq == 0 {
		b.Seq = c.s.seq.Next()
	} else {
		c.s.seq.Observe(b.Seq)
	}
	if b.Version == 0 {
		b.Version = 1
	}
	if err := db.Create(rec).Error; err != nil {
		return c.fail("insert", err)
	}
	return nil
}

func (c *Collection[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	var rec T
	err := c.s.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, c.notFound(id)
	}
	if err != nil {
		return nil, c.fail("get", err)
	}
	return &rec, nil
}

// List returns every record in insertion order.
func (c *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.s.db.WithContext(ctx).Order("seq ASC").Find(&out).Error; err != nil {
		return nil, c.fail("list", err)
	}
	return out, nil
}

// FindBy returns the records whose field equals value, in insertion order.
// field may be the Go field name or the column name.
func (c *Collection[T, PT]) FindBy(ctx context.Context, field string, value any) ([]T, error) {
	stmt := &gorm.Statement{DB: c.s.db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, c.fail("find", err)
	}
	f := stmt.Schema.LookUpField(field)
	if f == nil || f.DBName == "" {
		return nil, httperr.ErrValidation("unknown_field", c.entity+"."+field)
	}

	var out []T
	if err := c.s.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: f.DBName}, Value: value}).
		Order("seq ASC").
		Find(&out).Error; err != nil {
		return nil, c.fail("find", err)
	}
	return out, nil
}

// Remove deletes the record when present; unknown ids are a no-op.
func (c *Collection[T, PT]) Remove(ctx context.Context, id string) error {
	if err := c.s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error; err != nil {
		return c.fail("remove", err)
	}
	return nil
}

func (c *Collection[T, PT]) truncate(ctx context.Context) error {
	if err := c.s.db.WithContext(ctx).Where("1 = 1").Delete(new(T)).Error; err != nil {
		return c.fail("truncate", err)
	}
	return nil
}

func (c *Collection[T, PT]) restore(ctx context.Context, recs []T) error {
	if err := c.truncate(ctx); err != nil {
		return err
	}
	for i := range recs {
		if b := PT(&recs[i]).RecordBase(); b.ID == "" {
			b.ID = uuid.NewString()
		}
		if err := c.insert(c.s.db.WithContext(ctx), PT(&recs[i])); err != nil {
			return err
		}
	}
	return nil
}
