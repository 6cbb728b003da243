package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suyash01/expensehub/internal/models"
)

const (
	expenseColumns = "e.id, e.description, e.amount, e.date, e.user_id, e.category, e.status, e.notes, e.created_at, e.updated_at"
	// returningColumns is used by statements on the bare table (no alias).
	returningColumns = "id, description, amount, date, user_id, category, status, notes, created_at, updated_at"
	expenseJoin      = ` FROM expense e LEFT JOIN "user" u ON e.user_id = u.id`
)

// ExpenseFilter selects expense rows. Zero-valued fields do not filter.
type ExpenseFilter struct {
	ID       int64
	OwnerID  string
	Status   models.Status
	Category models.Category
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Predicates returns the filter as AND-able conditions on alias e.
func (f ExpenseFilter) Predicates() []Predicate {
	var preds []Predicate
	if f.ID != 0 {
		preds = append(preds, Eq{Column: "e.id", Value: f.ID})
	}
	if f.OwnerID != "" {
		preds = append(preds, Eq{Column: "e.user_id", Value: f.OwnerID})
	}
	if f.Status != "" {
		preds = append(preds, Eq{Column: "e.status", Value: string(f.Status)})
	}
	if f.Category != "" {
		preds = append(preds, Eq{Column: "e.category", Value: string(f.Category)})
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		preds = append(preds, ContainsFold{Column: "e.description", Substr: term})
	}
	if p := DateWindow("e.date", f.DateFrom, f.DateTo); p != nil {
		preds = append(preds, p)
	}
	return preds
}

// ListOptions orders and pages a list query. Nil Limit/Offset leave the
// result unbounded.
type ListOptions struct {
	SortBy    models.SortBy
	Direction models.SortDirection
	Limit     *int
	Offset    *int
}

var sortColumns = map[models.SortBy]string{
	models.SortByDate:        "e.date",
	models.SortByAmount:      "e.amount",
	models.SortByDescription: "e.description",
}

func (o ListOptions) orderBy() string {
	col, ok := sortColumns[o.SortBy]
	if !ok {
		col = sortColumns[models.SortByDate]
	}
	dir := "DESC"
	if o.Direction == models.SortAsc {
		dir = "ASC"
	}
	// id keeps pages stable when the sort column ties.
	return fmt.Sprintf(" ORDER BY %s %s, e.id %s", col, dir, dir)
}

func buildListQuery(f ExpenseFilter, opts ListOptions) (string, []any) {
	var args Args
	var b strings.Builder
	b.WriteString("SELECT " + expenseColumns + ", u.name")
	b.WriteString(expenseJoin)
	b.WriteString(Where(f.Predicates(), &args))
	b.WriteString(opts.orderBy())
	if opts.Limit != nil {
		b.WriteString(" LIMIT " + args.Add(*opts.Limit))
	}
	if opts.Offset != nil {
		b.WriteString(" OFFSET " + args.Add(*opts.Offset))
	}
	return b.String(), args.Values()
}

func buildCountQuery(f ExpenseFilter) (string, []any) {
	var args Args
	query := "SELECT COUNT(*) FROM expense e" + Where(f.Predicates(), &args)
	return query, args.Values()
}

// ExpensePatch holds the fields of a partial update; nil fields are kept.
type ExpensePatch struct {
	Description *string
	Amount      *decimal.Decimal
	Category    *models.Category
	Date        *time.Time
	Notes       *string
}

// buildUpdatePendingQuery updates the owner's row only while it is still
// pending, so the ownership check and the write are one statement.
func buildUpdatePendingQuery(id int64, ownerID string, p ExpensePatch) (string, []any) {
	var args Args
	var sets []string
	if p.Description != nil {
		sets = append(sets, "description = "+args.Add(*p.Description))
	}
	if p.Amount != nil {
		sets = append(sets, "amount = "+args.Add(*p.Amount))
	}
	if p.Category != nil {
		sets = append(sets, "category = "+args.Add(string(*p.Category)))
	}
	if p.Date != nil {
		sets = append(sets, "date = "+args.Add(*p.Date))
	}
	if p.Notes != nil {
		sets = append(sets, "notes = "+args.Add(*p.Notes))
	}
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf(
		"UPDATE expense SET %s WHERE id = %s AND user_id = %s AND status = %s RETURNING %s",
		strings.Join(sets, ", "),
		args.Add(id),
		args.Add(ownerID),
		args.Add(string(models.StatusPending)),
		returningColumns,
	)
	return query, args.Values()
}

// AggregateOrder selects how grouped rows are sorted.
type AggregateOrder int

const (
	// OrderNone leaves group order to the database.
	OrderNone AggregateOrder = iota
	// OrderLabelAsc sorts by bucket label, oldest period first.
	OrderLabelAsc
	// OrderTotalDesc sorts by summed amount, largest first.
	OrderTotalDesc
)

type AggregateQuery struct {
	GroupBy models.GroupBy
	OwnerID string
	Start   *time.Time
	End     *time.Time
	Order   AggregateOrder
}

var bucketFormats = map[models.GroupBy]string{
	models.GroupByDay:   "YYYY-MM-DD",
	models.GroupByMonth: "YYYY-MM",
	models.GroupByYear:  "YYYY",
}

// groupExprs returns the key and label expressions for a grouping.
func groupExprs(g models.GroupBy) (key, label string, err error) {
	switch g {
	case models.GroupByCategory:
		return "e.category::text", "e.category::text", nil
	case models.GroupByStatus:
		return "e.status::text", "e.status::text", nil
	case models.GroupByUser:
		return "e.user_id", "COALESCE(u.name, e.user_id)", nil
	case models.GroupByDay, models.GroupByMonth, models.GroupByYear:
		expr := fmt.Sprintf("to_char(e.date, '%s')", bucketFormats[g])
		return expr, expr, nil
	}
	return "", "", fmt.Errorf("unsupported grouping %q", g)
}

func buildAggregateQuery(q AggregateQuery) (string, []any, error) {
	key, label, err := groupExprs(q.GroupBy)
	if err != nil {
		return "", nil, err
	}

	var preds []Predicate
	if q.OwnerID != "" {
		preds = append(preds, Eq{Column: "e.user_id", Value: q.OwnerID})
	}
	preds = append(preds, StrictBounds("e.date", q.Start, q.End)...)

	var args Args
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s AS grp, %s AS label, COUNT(*), COALESCE(SUM(e.amount), 0)", key, label)
	b.WriteString(expenseJoin)
	b.WriteString(Where(preds, &args))
	b.WriteString(" GROUP BY grp, label")
	switch q.Order {
	case OrderLabelAsc:
		b.WriteString(" ORDER BY label ASC")
	case OrderTotalDesc:
		b.WriteString(" ORDER BY SUM(e.amount) DESC, grp ASC")
	}
	return b.String(), args.Values(), nil
}
