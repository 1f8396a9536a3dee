package repositories

import (
	"context"
	"errors"
	"time"

	"orbio/internal/util"
	"orbio/pkg/postgrest"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Accessor is the pass-through shared by every entity accessor: one table,
// one default ordering, typed rows, and errors normalized to *DataAccessError.
type Accessor[T any] struct {
	table    string
	client   TableClient
	validate *validator.Validate
	order    postgrest.Order
}

func newAccessor[T any](client TableClient, validate *validator.Validate, table string, order postgrest.Order) *Accessor[T] {
	if validate == nil {
		validate = validator.New()
	}
	return &Accessor[T]{
		table:    table,
		client:   client,
		validate: validate,
		order:    order,
	}
}

// Table returns the backing table name.
func (a *Accessor[T]) Table() string { return a.table }

// observe opens a span and returns a completion func that records metrics
// and normalizes the error.
func (a *Accessor[T]) observe(ctx context.Context, op string) (context.Context, func(error) error) {
	ctx, span := util.StartSpan(ctx, a.table+"."+op)
	span.SetAttributes(attribute.String("db.table", a.table))
	start := time.Now()

	return ctx, func(err error) error {
		defer span.End()
		util.AccessorLatency.WithLabelValues(a.table, op).Observe(time.Since(start).Seconds())
		if err == nil {
			util.AccessorCallsTotal.WithLabelValues(a.table, op, "ok").Inc()
			return nil
		}
		err = wrapError(a.table, op, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		util.AccessorCallsTotal.WithLabelValues(a.table, op, "error").Inc()
		return err
	}
}

func (a *Accessor[T]) list(ctx context.Context, op string, filters ...postgrest.Filter) ([]T, error) {
	ctx, done := a.observe(ctx, op)
	rows := []T{}
	order := a.order
	if err := a.client.Select(ctx, a.table, postgrest.Query{Filters: filters, Order: &order}, &rows); err != nil {
		return nil, done(err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, done(nil)
}

func (a *Accessor[T]) first(ctx context.Context, op string, filters ...postgrest.Filter) (*T, error) {
	ctx, done := a.observe(ctx, op)
	var rows []T
	order := a.order
	if err := a.client.Select(ctx, a.table, postgrest.Query{Filters: filters, Order: &order, Limit: 1}, &rows); err != nil {
		return nil, done(err)
	}
	if len(rows) == 0 {
		return nil, done(newError(a.table, op, CodeNotFound, ErrNotFound))
	}
	return &rows[0], done(nil)
}

// GetAll returns every row in the accessor's default order. An empty table yields an empty slice.
func (a *Accessor[T]) GetAll(ctx context.Context) ([]T, error) {
	return a.list(ctx, "getAll")
}

// GetByID returns the row with the given id, or an error matching ErrNotFound.
func (a *Accessor[T]) GetByID(ctx context.Context, id string) (*T, error) {
	return a.first(ctx, "getById", postgrest.Eq("id", id))
}

// Create validates rec and inserts it. The returned row carries the assigned id and timestamps.
func (a *Accessor[T]) Create(ctx context.Context, rec *T) (*T, error) {
	ctx, done := a.observe(ctx, "create")
	if rec == nil {
		return nil, done(newError(a.table, "create", CodeInvalidInput, errors.New("nil record")))
	}
	if err := a.validate.Struct(rec); err != nil {
		return nil, done(newError(a.table, "create", CodeInvalidInput, err))
	}
	var out T
	if err := a.client.Insert(ctx, a.table, rec, &out); err != nil {
		return nil, done(err)
	}
	return &out, done(nil)
}

// patch validates a typed patch and writes its non-nil fields.
func (a *Accessor[T]) patch(ctx context.Context, id string, p any) (*T, error) {
	if err := a.validate.Struct(p); err != nil {
		return nil, newError(a.table, "update", CodeInvalidInput, err)
	}
	cols, err := columnsOf(p)
	if err != nil {
		return nil, newError(a.table, "update", CodeInvalidInput, err)
	}
	return a.updateColumns(ctx, "update", id, cols)
}

// updateColumns writes cols to the row with the given id, stamping updated_at.
func (a *Accessor[T]) updateColumns(ctx context.Context, op, id string, cols map[string]any) (*T, error) {
	ctx, done := a.observe(ctx, op)
	cols["updated_at"] = time.Now().UTC()

	var rows []T
	if err := a.client.Update(ctx, a.table, []postgrest.Filter{postgrest.Eq("id", id)}, cols, &rows); err != nil {
		return nil, done(err)
	}
	if len(rows) == 0 {
		return nil, done(newError(a.table, op, CodeNotFound, ErrNotFound))
	}
	return &rows[0], done(nil)
}

// increment reads the row and writes column = current+1. Concurrent increments may be lost (last write wins).
func (a *Accessor[T]) increment(ctx context.Context, op, id, column string, current func(*T) int) (*T, error) {
	rec, err := a.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.updateColumns(ctx, op, id, map[string]any{column: current(rec) + 1})
}

// Delete removes the row with the given id, or returns an error matching ErrNotFound.
func (a *Accessor[T]) Delete(ctx context.Context, id string) error {
	ctx, done := a.observe(ctx, "delete")
	n, err := a.client.Delete(ctx, a.table, []postgrest.Filter{postgrest.Eq("id", id)})
	if err != nil {
		return done(err)
	}
	if n == 0 {
		return done(newError(a.table, "delete", CodeNotFound, ErrNotFound))
	}
	return done(nil)
}
