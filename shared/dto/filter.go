package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
}

// Filter is one named-parameter predicate for sqlx. ArgName defaults to Field
// and must be set when the same column appears twice, as in a range.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq not_eq less_eq greater_eq like in"`
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) arg() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	column, name := f.column(), f.arg()

	if sign, ok := comparisons[f.Operator]; ok {
		return fmt.Sprintf("%s %s :%s", column, sign, name), map[string]any{name: f.Value}
	}

	switch f.Operator {
	case FilterOperatorLike:
		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", column, name), map[string]any{name: fmt.Sprintf("%%%v%%", f.Value)}
	case FilterOperatorIn:
		val := reflect.ValueOf(f.Value)
		if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
			return "", map[string]any{}
		}

		// an empty IN list matches nothing
		if val.Len() == 0 {
			return "FALSE", map[string]any{}
		}

		args := make(map[string]any, val.Len())
		placeholders := make([]string, val.Len())

		for idx := range val.Len() {
			key := fmt.Sprintf("%s_%d", name, idx)
			args[key] = val.Index(idx).Interface()
			placeholders[idx] = ":" + key
		}

		return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
	}

	return "", map[string]any{}
}

type FilterGroup struct {
	Filters  []any
	Operator string
}

type whereClauser interface {
	GetWhereClause() (string, map[string]any)
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := []string{}

	for _, filter := range f.Filters {
		var part whereClauser

		switch fill := filter.(type) {
		case Filter:
			part = &fill
		case FilterGroup:
			part = &fill
		default:
			continue
		}

		where, arg := part.GetWhereClause()
		if where == "" {
			continue
		}

		clauses = append(clauses, where)
		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	return "(" + strings.Join(clauses, " "+f.Operator+" ") + ")", args
}
