package database

import (
	"strconv"
	"strings"
	"time"
)

// Args collects positional arguments and hands out their $n placeholders.
type Args struct {
	values []any
}

// Add appends v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

func (a *Args) Values() []any {
	return a.values
}

// Predicate is a single WHERE condition.
type Predicate interface {
	SQL(args *Args) string
}

type Eq struct {
	Column string
	Value  any
}

func (p Eq) SQL(args *Args) string {
	return p.Column + " = " + args.Add(p.Value)
}

// ContainsFold matches Column case-insensitively against Substr anywhere in
// the value. LIKE wildcards in Substr are matched literally.
type ContainsFold struct {
	Column string
	Substr string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (p ContainsFold) SQL(args *Args) string {
	return p.Column + " ILIKE " + args.Add("%"+likeEscaper.Replace(p.Substr)+"%")
}

// Between is inclusive on both ends.
type Between struct {
	Column   string
	From, To time.Time
}

func (p Between) SQL(args *Args) string {
	return p.Column + " BETWEEN " + args.Add(p.From) + " AND " + args.Add(p.To)
}

type After struct {
	Column string
	Value  time.Time
}

func (p After) SQL(args *Args) string {
	return p.Column + " > " + args.Add(p.Value)
}

type Before struct {
	Column string
	Value  time.Time
}

func (p Before) SQL(args *Args) string {
	return p.Column + " < " + args.Add(p.Value)
}

// And joins predicates with AND. An empty And renders as "".
type And []Predicate

func (p And) SQL(args *Args) string {
	parts := make([]string, 0, len(p))
	for _, pred := range p {
		if s := pred.SQL(args); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " AND ")
}

// Where renders preds as a WHERE clause with a leading space, or "" when
// there is nothing to filter on.
func Where(preds []Predicate, args *Args) string {
	cond := And(preds).SQL(args)
	if cond == "" {
		return ""
	}
	return " WHERE " + cond
}

// DateWindow is the list filter's date range: inclusive when both bounds
// are given, strict when only one is. Returns nil when neither is set.
func DateWindow(column string, from, to *time.Time) Predicate {
	switch {
	case from != nil && to != nil:
		return Between{Column: column, From: *from, To: *to}
	case from != nil:
		return After{Column: column, Value: *from}
	case to != nil:
		return Before{Column: column, Value: *to}
	}
	return nil
}

// StrictBounds applies each bound on its own as a strict comparison, the
// way analytics filter dates.
func StrictBounds(column string, start, end *time.Time) []Predicate {
	var preds []Predicate
	if start != nil {
		preds = append(preds, After{Column: column, Value: *start})
	}
	if end != nil {
		preds = append(preds, Before{Column: column, Value: *end})
	}
	return preds
}
