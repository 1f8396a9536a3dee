package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"orbio/pkg/postgrest"
)

// TableClient performs row operations against one backing store.
// Implementations: *postgrest.Client (hosted), *GORMTableClient and *MemoryTableClient.
type TableClient interface {
	// Select decodes the rows matching q into dest, a pointer to a slice.
	Select(ctx context.Context, table string, q postgrest.Query, dest any) error
	// Insert stores row, assigning id and timestamps when absent, and decodes the stored row into dest.
	Insert(ctx context.Context, table string, row any, dest any) error
	// Update sets values on rows matching filters and decodes the updated rows into dest, a pointer to a slice.
	Update(ctx context.Context, table string, filters []postgrest.Filter, values map[string]any, dest any) error
	// Delete removes rows matching filters and reports how many were removed.
	Delete(ctx context.Context, table string, filters []postgrest.Filter) (int, error)
}

var _ TableClient = (*postgrest.Client)(nil)

// columnsOf turns a patch struct into column values. Nil pointers, slices and
// maps are skipped, so only the supplied fields are written.
func columnsOf(patch any) (map[string]any, error) {
	v := reflect.ValueOf(patch)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("nil patch")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("patch must be a struct, got %s", v.Kind())
	}

	t := v.Type()
	cols := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			if fv.IsNil() {
				continue
			}
		}
		if fv.Kind() == reflect.Pointer {
			fv = fv.Elem()
		}
		cols[name] = fv.Interface()
	}
	return cols, nil
}

// remarshal copies src into dst through their JSON representations.
func remarshal(src, dst any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
