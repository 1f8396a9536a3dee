package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"orbio/internal/models"
	"orbio/pkg/postgrest"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMTableClient serves the table API from a relational database through GORM.
type GORMTableClient struct {
	db     *gorm.DB
	tables map[string]models.Tabler
}

// NewGORMTableClient registers the given entities as the client's tables.
func NewGORMTableClient(db *gorm.DB, tables ...models.Tabler) *GORMTableClient {
	c := &GORMTableClient{
		db:     db,
		tables: make(map[string]models.Tabler, len(tables)),
	}
	for _, t := range tables {
		c.tables[t.TableName()] = t
	}
	return c
}

// Migrate creates or updates the schema of every registered table.
func (c *GORMTableClient) Migrate() error {
	protos := make([]any, 0, len(c.tables))
	for _, t := range c.tables {
		protos = append(protos, t)
	}
	if err := c.db.AutoMigrate(protos...); err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func applyFilters(tx *gorm.DB, filters []postgrest.Filter) *gorm.DB {
	for _, f := range filters {
		col := clause.Column{Name: f.Column}
		switch f.Op {
		case postgrest.OpContains:
			// array columns are stored as JSON text
			needle, _ := json.Marshal(fmt.Sprint(f.Value))
			tx = tx.Where(clause.Expr{
				SQL:  "? LIKE ? ESCAPE '!'",
				Vars: []any{col, "%" + likeEscaper.Replace(string(needle)) + "%"},
			})
		default:
			tx = tx.Where(clause.Eq{Column: col, Value: f.Value})
		}
	}
	return tx
}

func (c *GORMTableClient) Select(ctx context.Context, table string, q postgrest.Query, dest any) error {
	tx := applyFilters(c.db.WithContext(ctx).Table(table), q.Filters)
	if q.Order != nil {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.Order.Column}, Desc: !q.Order.Ascending})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(dest).Error; err != nil {
		return fmt.Errorf("failed to select from %s: %w", table, err)
	}
	return nil
}

func (c *GORMTableClient) Insert(ctx context.Context, table string, row any, dest any) error {
	if err := c.db.WithContext(ctx).Table(table).Create(row).Error; err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	if dest == nil || dest == row {
		return nil
	}
	return remarshal(row, dest)
}

func (c *GORMTableClient) Update(ctx context.Context, table string, filters []postgrest.Filter, values map[string]any, dest any) error {
	cols := make(map[string]any, len(values))
	for k, v := range values {
		cv, err := columnValue(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s.%s: %w", table, k, err)
		}
		cols[k] = cv
	}

	res := applyFilters(c.db.WithContext(ctx).Table(table), filters).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s: %w", table, res.Error)
	}
	if dest == nil || res.RowsAffected == 0 {
		return nil
	}
	if err := applyFilters(c.db.WithContext(ctx).Table(table), filters).Find(dest).Error; err != nil {
		return fmt.Errorf("failed to reload %s: %w", table, err)
	}
	return nil
}

func (c *GORMTableClient) Delete(ctx context.Context, table string, filters []postgrest.Filter) (int, error) {
	proto, ok := c.tables[table]
	if !ok {
		return 0, fmt.Errorf("table %s is not registered", table)
	}
	model := reflect.New(reflect.TypeOf(proto).Elem()).Interface()
	res := applyFilters(c.db.WithContext(ctx), filters).Delete(model)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, res.Error)
	}
	return int(res.RowsAffected), nil
}

// columnValue encodes composite values as JSON text to match the serializer:json columns.
func columnValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if _, ok := v.(time.Time); ok {
		return v, nil
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Struct, reflect.Slice, reflect.Map, reflect.Array:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return v, nil
}
