// Package repository is the data-access layer. Every repository wraps the
// *gorm.DB handle it is given, normally the transaction of the current
// request, and never holds a connection of its own.
package repository

import (
	"context"
	"errors"
	"reflect"

	"maintenance-hub/internal/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Page is an offset/limit window over a listing.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Repository implements get/list/create/update/delete for one entity type.
type Repository[T any] struct {
	db          *gorm.DB
	name        string
	ownerColumn string
}

// New returns a repository for T. ownerColumn names the column ListByOwner
// filters on; it may be empty for entities without a direct owner.
func New[T any](db *gorm.DB, name, ownerColumn string) *Repository[T] {
	return &Repository[T]{db: db, name: name, ownerColumn: ownerColumn}
}

func (r *Repository[T]) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository[T]) notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("the %s does not exist", r.name)
	}
	return apperr.Internal(err, "%s query failed", r.name)
}

func (r *Repository[T]) Get(ctx context.Context, id uint) (*T, error) {
	var out T
	if err := r.conn(ctx).First(&out, id).Error; err != nil {
		return nil, r.notFound(err)
	}
	return &out, nil
}

// List returns rows in primary key order.
func (r *Repository[T]) List(ctx context.Context, page Page) ([]T, error) {
	return r.find(ctx, page, nil)
}

func (r *Repository[T]) ListByOwner(ctx context.Context, ownerID uint, page Page) ([]T, error) {
	if r.ownerColumn == "" {
		return nil, apperr.Internal(nil, "%s has no owner column", r.name)
	}
	return r.ListBy(ctx, r.ownerColumn, ownerID, page)
}

// ListBy filters on a single column equal to value.
func (r *Repository[T]) ListBy(ctx context.Context, column string, value any, page Page) ([]T, error) {
	return r.find(ctx, page, func(q *gorm.DB) *gorm.DB {
		return q.Where(map[string]any{column: value})
	})
}

func (r *Repository[T]) find(ctx context.Context, page Page, scope func(*gorm.DB) *gorm.DB) ([]T, error) {
	page = page.normalize()
	q := r.conn(ctx).Model(new(T))
	if scope != nil {
		q = scope(q)
	}

	out := []T{}
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}}).
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&out).Error
	if err != nil {
		return nil, apperr.Internal(err, "listing %s", r.name)
	}
	return out, nil
}

// Create persists entity after applying inject, which sets the fields the
// server owns (owner, creator, parent). Injected values win over whatever the
// caller put into entity.
func (r *Repository[T]) Create(ctx context.Context, entity *T, inject ...func(*T)) (*T, error) {
	for _, fn := range inject {
		fn(entity)
	}
	if err := r.conn(ctx).Create(entity).Error; err != nil {
		return nil, apperr.Internal(err, "creating %s", r.name)
	}
	return entity, nil
}

// Update applies the non-nil fields of patch to existing and returns the
// stored row. updated_at is refreshed even when patch changes nothing.
func (r *Repository[T]) Update(ctx context.Context, existing *T, patch any) (*T, error) {
	changes, err := Changes(patch)
	if err != nil {
		return nil, apperr.Internal(err, "building %s patch", r.name)
	}
	return r.UpdateColumns(ctx, existing, changes)
}

// UpdateColumns writes changes verbatim, nil values included.
func (r *Repository[T]) UpdateColumns(ctx context.Context, existing *T, changes map[string]any) (*T, error) {
	if changes == nil {
		changes = map[string]any{}
	}
	res := r.conn(ctx).Model(existing).Updates(changes)
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "updating %s", r.name)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("the %s does not exist", r.name)
	}

	id, err := r.primaryKey(ctx, existing)
	if err != nil {
		return nil, apperr.Internal(err, "reloading %s", r.name)
	}
	var fresh T
	if err := r.conn(ctx).First(&fresh, id).Error; err != nil {
		return nil, r.notFound(err)
	}
	*existing = fresh
	return existing, nil
}

// Delete removes the row and returns it as it was just before deletion.
func (r *Repository[T]) Delete(ctx context.Context, id uint) (*T, error) {
	prev, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res := r.conn(ctx).Delete(new(T), id)
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "deleting %s", r.name)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("the %s does not exist", r.name)
	}
	return prev, nil
}

// primaryKey reads the primary key value of entity.
func (r *Repository[T]) primaryKey(ctx context.Context, entity *T) (any, error) {
	stmt := &gorm.Statement{DB: r.db}
	if err := stmt.Parse(entity); err != nil {
		return nil, err
	}
	field := stmt.Schema.PrioritizedPrimaryField
	if field == nil {
		return nil, errors.New("no primary key")
	}
	value, zero := field.ValueOf(ctx, reflect.ValueOf(entity).Elem())
	if zero {
		return nil, errors.New("primary key is zero")
	}
	return value, nil
}

var naming = schema.NamingStrategy{}

// Changes turns a patch struct into a column map. Only pointer, slice and
// map fields that are set take part; column names follow the gorm naming of
// the field name, or the `column:` of a gorm tag when present.
func Changes(patch any) (map[string]any, error) {
	out := map[string]any{}
	if patch == nil {
		return out, nil
	}

	v := reflect.ValueOf(patch)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return out, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, errors.New("patch must be a struct")
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := schema.ParseTagSetting(f.Tag.Get("gorm"), ";")
		if _, skip := tag["-"]; skip {
			continue
		}
		column := naming.ColumnName("", f.Name)
		if c, ok := tag["COLUMN"]; ok && c != "" {
			column = c
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Pointer:
			if !fv.IsNil() {
				out[column] = fv.Elem().Interface()
			}
		case reflect.Slice, reflect.Map:
			if !fv.IsNil() {
				out[column] = fv.Interface()
			}
		}
	}
	return out, nil
}
