package filter

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// columnIndex caches db tag -> field index per struct type.
var columnIndex sync.Map

func columnsOf(t reflect.Type) map[string]int {
	if cached, ok := columnIndex.Load(t); ok {
		return cached.(map[string]int)
	}
	cols := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols[tag] = i
	}
	columnIndex.Store(t, cols)
	return cols
}

// columnValue returns the dereferenced value of the field tagged with column,
// or false when the field is missing or a nil pointer. Quoted identifiers
// match their unquoted tag.
func columnValue(v reflect.Value, column string) (reflect.Value, bool) {
	idx, ok := columnsOf(v.Type())[strings.Trim(column, `"`)]
	if !ok {
		return reflect.Value{}, false
	}
	f := v.Field(idx)
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return reflect.Value{}, false
		}
		f = f.Elem()
	}
	return f, true
}

// Apply evaluates q against in-memory records. T must be a struct whose
// fields carry the same db tags the Postgres repositories select.
func Apply[T any](q Query, items []T) Page[T] {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(q, item) {
			matched = append(matched, item)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		vi, _ := columnValue(reflect.ValueOf(matched[i]), q.SortColumn)
		vj, _ := columnValue(reflect.ValueOf(matched[j]), q.SortColumn)
		c := compare(vi, vj)
		if c == 0 {
			ii, _ := columnValue(reflect.ValueOf(matched[i]), "id")
			ij, _ := columnValue(reflect.ValueOf(matched[j]), "id")
			return compare(ii, ij) < 0
		}
		if q.Direction == Desc {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(matched))
	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit > 0 && q.Limit < end-start {
		end = start + q.Limit
	}
	return NewPage(matched[start:end], total, q)
}

// Matches reports whether item satisfies every condition of q.
func Matches[T any](q Query, item T) bool {
	v := reflect.ValueOf(item)
	for _, cond := range q.Conditions {
		f, ok := columnValue(v, cond.Column)
		if !ok {
			return false
		}
		if !matchCondition(f, cond) {
			return false
		}
	}
	return true
}

func matchCondition(f reflect.Value, cond Condition) bool {
	switch cond.Op {
	case OpEq:
		want := reflect.ValueOf(cond.Value)
		if f.Kind() == reflect.String && want.Kind() == reflect.String {
			return f.String() == want.String()
		}
		return f.Interface() == cond.Value
	case OpContains:
		if f.Kind() != reflect.String {
			return false
		}
		needle, _ := cond.Value.(string)
		return strings.Contains(strings.ToLower(f.String()), strings.ToLower(needle))
	case OpGte, OpLte:
		t, ok := f.Interface().(time.Time)
		bound, okBound := cond.Value.(time.Time)
		if !ok || !okBound {
			return false
		}
		if cond.Op == OpGte {
			return !t.Before(bound)
		}
		return !t.After(bound)
	}
	return false
}

// compare orders two column values. Missing values sort last.
func compare(a, b reflect.Value) int {
	switch {
	case !a.IsValid() && !b.IsValid():
		return 0
	case !a.IsValid():
		return 1
	case !b.IsValid():
		return -1
	}

	switch av := a.Interface().(type) {
	case time.Time:
		bv := b.Interface().(time.Time)
		return av.Compare(bv)
	case uuid.UUID:
		return strings.Compare(av.String(), b.Interface().(uuid.UUID).String())
	}

	switch a.Kind() {
	case reflect.String:
		return strings.Compare(a.String(), b.String())
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		default:
			return 1
		}
	}
	return 0
}
