package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"orbio/pkg/postgrest"

	"github.com/google/uuid"
)

type memoryRow struct {
	seq    int64
	values map[string]any
}

// MemoryTableClient keeps tables in process memory. Rows are stored in their
// JSON form so filtering and ordering see the same column names as the hosted API.
type MemoryTableClient struct {
	mu     sync.RWMutex
	tables map[string]map[string]*memoryRow
	seq    int64
}

// NewMemoryTableClient creates an empty in-memory store.
func NewMemoryTableClient() *MemoryTableClient {
	return &MemoryTableClient{
		tables: make(map[string]map[string]*memoryRow),
	}
}

func (c *MemoryTableClient) table(name string) map[string]*memoryRow {
	t, ok := c.tables[name]
	if !ok {
		t = make(map[string]*memoryRow)
		c.tables[name] = t
	}
	return t
}

// Select returns copies of the matching rows.
func (c *MemoryTableClient) Select(ctx context.Context, table string, q postgrest.Query, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows := make([]*memoryRow, 0)
	for _, r := range c.tables[table] {
		if matches(r.values, q.Filters) {
			rows = append(rows, r)
		}
	}
	sortRows(rows, q.Order)
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.values)
	}
	return remarshal(out, dest)
}

// Insert stores row, assigning id and timestamps when absent.
func (c *MemoryTableClient) Insert(ctx context.Context, table string, row any, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	values := map[string]any{}
	if err := remarshal(row, &values); err != nil {
		return fmt.Errorf("encode %s row: %w", table, err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if id, _ := values["id"].(string); id == "" {
		values["id"] = uuid.New().String()
	}
	for _, col := range []string{"created_at", "updated_at"} {
		if s, _ := values[col].(string); s == "" {
			values[col] = now
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.table(table)
	id := values["id"].(string)
	if _, exists := t[id]; exists {
		return fmt.Errorf("%s row %s: %w", table, id, errDuplicate)
	}
	c.seq++
	t[id] = &memoryRow{seq: c.seq, values: values}

	if dest == nil {
		return nil
	}
	return remarshal(values, dest)
}

// Update merges values into every matching row.
func (c *MemoryTableClient) Update(ctx context.Context, table string, filters []postgrest.Filter, values map[string]any, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	patch := map[string]any{}
	if err := remarshal(values, &patch); err != nil {
		return fmt.Errorf("encode %s patch: %w", table, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	updated := make([]*memoryRow, 0)
	for _, r := range c.tables[table] {
		if !matches(r.values, filters) {
			continue
		}
		merged := make(map[string]any, len(r.values)+len(patch))
		for k, v := range r.values {
			merged[k] = v
		}
		for k, v := range patch {
			merged[k] = v
		}
		r.values = merged
		updated = append(updated, r)
	}
	sortRows(updated, nil)

	if dest == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(updated))
	for _, r := range updated {
		out = append(out, r.values)
	}
	return remarshal(out, dest)
}

// Delete removes every matching row.
func (c *MemoryTableClient) Delete(ctx context.Context, table string, filters []postgrest.Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.tables[table]
	removed := 0
	for id, r := range t {
		if matches(r.values, filters) {
			delete(t, id)
			removed++
		}
	}
	return removed, nil
}

// normalize gives a filter value the same shape a stored JSON value has.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Sprint(v)
	}
	return out
}

func matches(row map[string]any, filters []postgrest.Filter) bool {
	for _, f := range filters {
		cell := row[f.Column]
		want := fmt.Sprint(normalize(f.Value))
		switch f.Op {
		case postgrest.OpContains:
			items, ok := cell.([]any)
			if !ok {
				return false
			}
			found := false
			for _, it := range items {
				if fmt.Sprint(it) == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			if cell == nil || fmt.Sprint(cell) != want {
				return false
			}
		}
	}
	return true
}

func sortRows(rows []*memoryRow, order *postgrest.Order) {
	sort.SliceStable(rows, func(i, j int) bool {
		if order != nil {
			if c := compareCells(rows[i].values[order.Column], rows[j].values[order.Column]); c != 0 {
				if order.Ascending {
					return c < 0
				}
				return c > 0
			}
			if !order.Ascending {
				return rows[i].seq > rows[j].seq
			}
		}
		return rows[i].seq < rows[j].seq
	})
}

// compareCells orders numbers numerically, timestamps chronologically and
// everything else by its string form. Missing values sort first.
func compareCells(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	if ta, err := time.Parse(time.RFC3339Nano, as); err == nil {
		if tb, err := time.Parse(time.RFC3339Nano, bs); err == nil {
			return ta.Compare(tb)
		}
	}
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}
