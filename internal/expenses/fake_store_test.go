package expenses

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/suyash01/expensehub/internal/database"
	"github.com/suyash01/expensehub/internal/models"
)

// fakeStore keeps expenses in memory and applies filters the way the SQL
// builder does, including the list date window.
type fakeStore struct {
	mu       sync.Mutex
	rows     []models.Expense
	nextID   int64
	err      error
	lastAgg  database.AggregateQuery
	aggRows  []models.AnalyticsRow
	created  []models.Expense
	lastOpts database.ListOptions
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) add(e models.Expense) models.Expense {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID
	f.nextID++
	if e.Status == "" {
		e.Status = models.StatusPending
	}
	f.rows = append(f.rows, e)
	return e
}

func matches(e models.Expense, flt database.ExpenseFilter) bool {
	if flt.ID != 0 && e.ID != flt.ID {
		return false
	}
	if flt.OwnerID != "" && e.UserID != flt.OwnerID {
		return false
	}
	if flt.Status != "" && e.Status != flt.Status {
		return false
	}
	if flt.Category != "" && e.Category != flt.Category {
		return false
	}
	if term := strings.TrimSpace(flt.Search); term != "" &&
		!strings.Contains(strings.ToLower(e.Description), strings.ToLower(term)) {
		return false
	}
	switch {
	case flt.DateFrom != nil && flt.DateTo != nil:
		if e.Date.Before(*flt.DateFrom) || e.Date.After(*flt.DateTo) {
			return false
		}
	case flt.DateFrom != nil:
		if !e.Date.After(*flt.DateFrom) {
			return false
		}
	case flt.DateTo != nil:
		if !e.Date.Before(*flt.DateTo) {
			return false
		}
	}
	return true
}

func (f *fakeStore) List(_ context.Context, flt database.ExpenseFilter, opts database.ListOptions) ([]models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Expense{}
	for _, e := range f.rows {
		if matches(e, flt) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if opts.Offset != nil {
		if *opts.Offset >= len(out) {
			out = out[:0]
		} else {
			out = out[*opts.Offset:]
		}
	}
	if opts.Limit != nil && *opts.Limit < len(out) {
		out = out[:*opts.Limit]
	}
	return out, nil
}

func (f *fakeStore) Count(_ context.Context, flt database.ExpenseFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, e := range f.rows {
		if matches(e, flt) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Get(_ context.Context, id int64, ownerID string) (models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if matches(e, database.ExpenseFilter{ID: id, OwnerID: ownerID}) {
			return e, nil
		}
	}
	return models.Expense{}, fmt.Errorf("expense %d: %w", id, database.ErrNotFound)
}

func (f *fakeStore) Create(_ context.Context, e models.Expense) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	e = f.add(e)
	f.mu.Lock()
	f.created = append(f.created, e)
	f.mu.Unlock()
	return e.ID, nil
}

func (f *fakeStore) UpdatePending(_ context.Context, id int64, ownerID string, p database.ExpensePatch) (models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		e := &f.rows[i]
		if e.ID != id || e.UserID != ownerID {
			continue
		}
		if !e.IsPending() {
			return models.Expense{}, &database.NotPendingError{Status: e.Status}
		}
		if p.Description != nil {
			e.Description = *p.Description
		}
		if p.Amount != nil {
			e.Amount = *p.Amount
		}
		if p.Category != nil {
			e.Category = *p.Category
		}
		if p.Date != nil {
			e.Date = *p.Date
		}
		if p.Notes != nil {
			e.Notes = p.Notes
		}
		e.UpdatedAt = time.Now()
		return *e, nil
	}
	return models.Expense{}, fmt.Errorf("expense %d: %w", id, database.ErrNotFound)
}

func (f *fakeStore) SetStatus(_ context.Context, id int64, status models.Status, notes *string) (models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = status
			if notes != nil {
				f.rows[i].Notes = notes
			}
			return f.rows[i], nil
		}
	}
	return models.Expense{}, fmt.Errorf("expense %d: %w", id, database.ErrNotFound)
}

func (f *fakeStore) Delete(_ context.Context, id int64, ownerID string) ([]models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.rows {
		if matches(e, database.ExpenseFilter{ID: id, OwnerID: ownerID}) {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return []models.Expense{e}, nil
		}
	}
	return nil, fmt.Errorf("expense %d: %w", id, database.ErrNotFound)
}

func (f *fakeStore) Aggregate(_ context.Context, q database.AggregateQuery) ([]models.AnalyticsRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAgg = q
	if f.err != nil {
		return nil, f.err
	}
	return f.aggRows, nil
}
