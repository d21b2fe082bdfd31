package filter

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
)

// Kind says how a field is compared.
type Kind int

const (
	// KindExact compares strings and enums for equality.
	KindExact Kind = iota
	// KindText matches a case-insensitive substring.
	KindText
	KindUUID
	KindBool
	// KindTime fields can only be used in range filters and for sorting.
	KindTime
)

// Field maps a DTO field name to its column.
type Field struct {
	Column string
	Kind   Kind
}

// Schema describes the filterable and sortable fields of one entity.
type Schema struct {
	Fields           map[string]Field
	DefaultSort      string
	DefaultDirection Direction
}

// Op is a comparison operator.
type Op int

const (
	OpEq Op = iota
	OpContains
	OpGte
	OpLte
)

// Condition is a single compiled predicate on a column.
type Condition struct {
	Column string
	Op     Op
	Value  interface{}
}

// Query is a validated request ready to run against a repository.
// Conditions are ANDed together.
type Query struct {
	Conditions []Condition
	SortColumn string
	Direction  Direction
	PageNumber int
	Limit      int
	Offset     int
}

// Where returns a copy of q with an extra equality condition on column.
func (q Query) Where(column string, value interface{}) Query {
	conds := make([]Condition, 0, len(q.Conditions)+1)
	conds = append(conds, q.Conditions...)
	q.Conditions = append(conds, Condition{Column: column, Op: OpEq, Value: value})
	return q
}

// Compile validates req against the schema and turns it into a Query.
// Unknown fields and values of the wrong type are reported as invalid input.
func (s Schema) Compile(req Request) (Query, error) {
	p := req.Pagination.normalize()
	if p.PageNumber > MaxPageNumber {
		return Query{}, idmerrors.InvalidInput("pagination.pageNumber", fmt.Sprintf("must be at most %d", MaxPageNumber))
	}
	q := Query{
		PageNumber: p.PageNumber,
		Limit:      p.PageSize,
		Offset:     p.PageNumber * p.PageSize,
	}

	for name, raw := range req.Filters {
		if raw == nil {
			continue
		}
		field, ok := s.Fields[name]
		if !ok {
			return Query{}, idmerrors.InvalidInput("filters."+name, "unknown field")
		}
		cond, err := compileCondition(name, field, raw)
		if err != nil {
			return Query{}, err
		}
		q.Conditions = append(q.Conditions, cond)
	}

	for name, rng := range req.RangeFilters.Ranges {
		field, ok := s.Fields[name]
		if !ok {
			return Query{}, idmerrors.InvalidInput("rangeFilters."+name, "unknown field")
		}
		if field.Kind != KindTime {
			return Query{}, idmerrors.InvalidInput("rangeFilters."+name, "field does not support ranges")
		}
		if rng.From != nil {
			q.Conditions = append(q.Conditions, Condition{Column: field.Column, Op: OpGte, Value: rng.From.UTC()})
		}
		if rng.To != nil {
			q.Conditions = append(q.Conditions, Condition{Column: field.Column, Op: OpLte, Value: rng.To.UTC()})
		}
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = s.DefaultSort
	}
	sortField, ok := s.Fields[sortBy]
	if !ok {
		return Query{}, idmerrors.InvalidInput("pagination.sortBy", fmt.Sprintf("cannot sort by %q", sortBy))
	}
	q.SortColumn = sortField.Column

	switch Direction(strings.ToUpper(p.SortDirection)) {
	case "":
		q.Direction = s.DefaultDirection
		if q.Direction == "" {
			q.Direction = Asc
		}
	case Asc:
		q.Direction = Asc
	case Desc:
		q.Direction = Desc
	default:
		return Query{}, idmerrors.InvalidInput("pagination.sortDirection", "must be ASC or DESC")
	}

	return q, nil
}

func compileCondition(name string, field Field, raw interface{}) (Condition, error) {
	switch field.Kind {
	case KindExact, KindText:
		v := reflect.ValueOf(raw)
		if v.Kind() != reflect.String {
			return Condition{}, idmerrors.InvalidInput("filters."+name, "expected a string")
		}
		op := OpEq
		if field.Kind == KindText {
			op = OpContains
		}
		return Condition{Column: field.Column, Op: op, Value: v.String()}, nil
	case KindUUID:
		switch v := raw.(type) {
		case uuid.UUID:
			return Condition{Column: field.Column, Op: OpEq, Value: v}, nil
		case string:
			id, err := uuid.Parse(v)
			if err != nil {
				return Condition{}, idmerrors.InvalidInput("filters."+name, "expected a UUID")
			}
			return Condition{Column: field.Column, Op: OpEq, Value: id}, nil
		}
		return Condition{}, idmerrors.InvalidInput("filters."+name, "expected a UUID")
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return Condition{}, idmerrors.InvalidInput("filters."+name, "expected a boolean")
		}
		return Condition{Column: field.Column, Op: OpEq, Value: b}, nil
	case KindTime:
		return Condition{}, idmerrors.InvalidInput("filters."+name, "use rangeFilters for time fields")
	}
	return Condition{}, idmerrors.InvalidInput("filters."+name, "unsupported field")
}
