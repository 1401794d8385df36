package repository

import (
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Op is a comparison operator allowed in list filters.
type Op string

const (
	OpEq       Op = "="
	OpContains Op = "contains"
	OpGte      Op = ">="
	OpLte      Op = "<="
)

// Predicate is a single (column, operator, value) condition. Column is always
// taken from a fixed field table, never from the request.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// Filter is an AND-combined list of predicates.
type Filter []Predicate

// Apply adds every predicate to the builder as a bound WHERE condition.
func (f Filter) Apply(builder sq.SelectBuilder) sq.SelectBuilder {
	for _, p := range f {
		switch p.Op {
		case OpContains:
			builder = builder.Where(sq.ILike{p.Column: "%" + escapeLike(toString(p.Value)) + "%"})
		case OpGte:
			builder = builder.Where(sq.GtOrEq{p.Column: p.Value})
		case OpLte:
			builder = builder.Where(sq.LtOrEq{p.Column: p.Value})
		default:
			builder = builder.Where(sq.Eq{p.Column: p.Value})
		}
	}
	return builder
}

// ValueParser converts a raw request value. ok=false drops the predicate.
type ValueParser func(raw string) (value any, ok bool)

// Field maps a request parameter onto a column and operator.
type Field struct {
	Param  string
	Column string
	Op     Op
	Parse  ValueParser
}

// FilterFromParams builds a filter from request parameters. Blank values,
// parameters not in fields and values the parser rejects are ignored.
func FilterFromParams(lookup func(key string) string, fields []Field) Filter {
	var filter Filter
	for _, field := range fields {
		raw := strings.TrimSpace(lookup(field.Param))
		if raw == "" {
			continue
		}
		parse := field.Parse
		if parse == nil {
			parse = Text
		}
		value, ok := parse(raw)
		if !ok {
			continue
		}
		filter = append(filter, Predicate{Column: field.Column, Op: field.Op, Value: value})
	}
	return filter
}

const dateLayout = "2006-01-02"

// Text keeps the raw value.
func Text(raw string) (any, bool) {
	return raw, true
}

// Int accepts base-10 integers.
func Int(raw string) (any, bool) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Date accepts YYYY-MM-DD.
func Date(raw string) (any, bool) {
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return nil, false
	}
	return t, true
}

// DayStart accepts YYYY-MM-DD and returns 00:00:00 of that day.
func DayStart(raw string) (any, bool) {
	return Date(raw)
}

// DayEnd accepts YYYY-MM-DD and returns 23:59:59 of that day.
func DayEnd(raw string) (any, bool) {
	v, ok := Date(raw)
	if !ok {
		return nil, false
	}
	return v.(time.Time).Add(24*time.Hour - time.Second), true
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}
