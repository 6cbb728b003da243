package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/suyash01/expensehub/internal/models"
)

var ErrNotFound = errors.New("not found")

// NotPendingError is returned by UpdatePending when the row exists for the
// owner but has already been decided.
type NotPendingError struct {
	Status models.Status
}

func (e *NotPendingError) Error() string {
	return fmt.Sprintf("expense status is %s", e.Status)
}

type ExpenseStore struct {
	db SQLDB
}

func NewExpenseStore(db SQLDB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

// List returns one page of expenses joined with the submitter's name.
func (s *ExpenseStore) List(ctx context.Context, f ExpenseFilter, opts ListOptions) ([]models.Expense, error) {
	query, args := buildListQuery(f, opts)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows.Scan, true)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Count returns how many rows match f, ignoring paging.
func (s *ExpenseStore) Count(ctx context.Context, f ExpenseFilter) (int, error) {
	query, args := buildCountQuery(f)
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

// Get returns the expense with id, restricted to ownerID unless it is empty.
func (s *ExpenseStore) Get(ctx context.Context, id int64, ownerID string) (models.Expense, error) {
	query, args := buildListQuery(ExpenseFilter{ID: id, OwnerID: ownerID}, ListOptions{})
	e, err := scanExpense(s.db.QueryRowContext(ctx, query, args...).Scan, true)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Expense{}, fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// Create inserts e and returns its id. Status and timestamps use the
// column defaults.
func (s *ExpenseStore) Create(ctx context.Context, e models.Expense) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO expense (description, amount, user_id, category, date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, e.Description, e.Amount, e.UserID, string(e.Category), e.Date, e.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	return id, nil
}

// UpdatePending applies p to the owner's pending expense. It returns
// ErrNotFound when the owner has no such expense and *NotPendingError when
// the expense has already been approved or rejected.
func (s *ExpenseStore) UpdatePending(ctx context.Context, id int64, ownerID string, p ExpensePatch) (models.Expense, error) {
	query, args := buildUpdatePendingQuery(id, ownerID, p)
	e, err := scanExpense(s.db.QueryRowContext(ctx, query, args...).Scan, false)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	// Nothing changed; find out why.
	var status string
	err = s.db.QueryRowContext(ctx,
		"SELECT status FROM expense WHERE id = $1 AND user_id = $2", id, ownerID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Expense{}, fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return models.Expense{}, &NotPendingError{Status: models.Status(status)}
}

// SetStatus moves the expense to status regardless of its current state.
// A non-nil notes replaces the stored notes.
func (s *ExpenseStore) SetStatus(ctx context.Context, id int64, status models.Status, notes *string) (models.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE expense
		SET status = $1, notes = COALESCE($2, notes), updated_at = now()
		WHERE id = $3
		RETURNING `+returningColumns,
		string(status), notes, id)
	e, err := scanExpense(row.Scan, false)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Expense{}, fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("set expense status: %w", err)
	}
	return e, nil
}

// Delete removes the expense, restricted to ownerID unless it is empty, and
// returns the deleted rows.
func (s *ExpenseStore) Delete(ctx context.Context, id int64, ownerID string) ([]models.Expense, error) {
	var args Args
	preds := []Predicate{Eq{Column: "id", Value: id}}
	if ownerID != "" {
		preds = append(preds, Eq{Column: "user_id", Value: ownerID})
	}
	query := "DELETE FROM expense" + Where(preds, &args) + " RETURNING " + returningColumns

	rows, err := s.db.QueryContext(ctx, query, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("delete expense: %w", err)
	}
	defer rows.Close()

	var deleted []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows.Scan, false)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		deleted = append(deleted, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delete expense: %w", err)
	}
	if len(deleted) == 0 {
		return nil, fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	return deleted, nil
}

// Aggregate returns count and summed amount per group.
func (s *ExpenseStore) Aggregate(ctx context.Context, q AggregateQuery) ([]models.AnalyticsRow, error) {
	query, args, err := buildAggregateQuery(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate expenses: %w", err)
	}
	defer rows.Close()

	result := []models.AnalyticsRow{}
	for rows.Next() {
		var r models.AnalyticsRow
		if err := rows.Scan(&r.Group, &r.Label, &r.Count, &r.Total); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("aggregate expenses: %w", err)
	}
	return result, nil
}

// scanExpense reads the expense columns in select order, followed by the
// submitter name when withSubmitter is set.
func scanExpense(scan func(dest ...any) error, withSubmitter bool) (models.Expense, error) {
	var e models.Expense
	var category, status string
	var notes, submittedBy sql.NullString
	dest := []any{
		&e.ID,
		&e.Description,
		&e.Amount,
		&e.Date,
		&e.UserID,
		&category,
		&status,
		&notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	}
	if withSubmitter {
		dest = append(dest, &submittedBy)
	}
	if err := scan(dest...); err != nil {
		return models.Expense{}, err
	}
	e.Category = models.Category(category)
	e.Status = models.Status(status)
	if notes.Valid {
		e.Notes = &notes.String
	}
	if submittedBy.Valid {
		e.SubmittedBy = &submittedBy.String
	}
	return e, nil
}
