package postgrest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Op is a PostgREST filter operator.
type Op string

const (
	OpEq       Op = "eq"
	OpContains Op = "cs"
)

// Filter restricts a query to rows where Column matches Value under Op.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq matches rows whose column equals v.
func Eq(column string, v any) Filter {
	return Filter{Column: column, Op: OpEq, Value: v}
}

// Contains matches rows whose array column contains v.
func Contains(column string, v string) Filter {
	return Filter{Column: column, Op: OpContains, Value: v}
}

// Order sorts the result set by a single column.
type Order struct {
	Column    string
	Ascending bool
}

// Query describes a row selection.
type Query struct {
	Filters []Filter
	Order   *Order
	Limit   int
}

// Where returns a copy of q with f appended.
func (q Query) Where(f ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), f...)
	return q
}

// encode renders the filter value in PostgREST's query syntax.
func (f Filter) encode() string {
	switch f.Op {
	case OpContains:
		s := fmt.Sprint(f.Value)
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		return string(f.Op) + `.{"` + s + `"}`
	default:
		return string(f.Op) + "." + fmt.Sprint(f.Value)
	}
}

func filterValues(filters []Filter) url.Values {
	v := url.Values{}
	for _, f := range filters {
		v.Add(f.Column, f.encode())
	}
	return v
}

// Values renders q as URL query parameters.
func (q Query) Values() url.Values {
	v := filterValues(q.Filters)
	if q.Order != nil {
		dir := "desc"
		if q.Order.Ascending {
			dir = "asc"
		}
		v.Set("order", q.Order.Column+"."+dir)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}
