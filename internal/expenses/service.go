// Package expenses implements the expense procedures on top of the store:
// scoping by caller, validation and the error translation to apperr.
package expenses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/suyash01/expensehub/internal/apperr"
	"github.com/suyash01/expensehub/internal/auth"
	"github.com/suyash01/expensehub/internal/database"
	"github.com/suyash01/expensehub/internal/models"
)

// Store is the persistence the service needs. *database.ExpenseStore
// satisfies it.
type Store interface {
	List(ctx context.Context, f database.ExpenseFilter, opts database.ListOptions) ([]models.Expense, error)
	Count(ctx context.Context, f database.ExpenseFilter) (int, error)
	Get(ctx context.Context, id int64, ownerID string) (models.Expense, error)
	Create(ctx context.Context, e models.Expense) (int64, error)
	UpdatePending(ctx context.Context, id int64, ownerID string, p database.ExpensePatch) (models.Expense, error)
	SetStatus(ctx context.Context, id int64, status models.Status, notes *string) (models.Expense, error)
	Delete(ctx context.Context, id int64, ownerID string) ([]models.Expense, error)
	Aggregate(ctx context.Context, q database.AggregateQuery) ([]models.AnalyticsRow, error)
}

var _ Store = (*database.ExpenseStore)(nil)

const defaultPageSize = 10

type Service struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, validate: newValidator(), now: time.Now}
}

// scope returns the owner filter for c: none for admins, c's id otherwise.
func scope(c auth.Caller) string {
	if c.IsAdmin() {
		return ""
	}
	return c.ID
}

// GetAll lists one page of expenses visible to the caller plus the total
// number of matching rows.
func (s *Service) GetAll(ctx context.Context, c auth.Caller, in ListInput) (models.ExpensePage, error) {
	if err := validateInput(s.validate, in); err != nil {
		return models.ExpensePage{}, err
	}
	f := database.ExpenseFilter{
		OwnerID:  scope(c),
		Search:   in.SearchTerm,
		DateFrom: in.DateFrom.ptr(),
		DateTo:   in.DateTo.ptr(),
	}
	if in.Status != "" && in.Status != models.AllStatuses {
		f.Status = models.Status(in.Status)
	}
	if in.Category != "" && in.Category != models.AllCategories {
		f.Category = models.Category(in.Category)
	}
	opts := database.ListOptions{
		SortBy:    in.SortBy,
		Direction: in.SortDirection,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}

	var page []models.Expense
	var total int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.store.List(gctx, f, opts)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ExpensePage{}, translate("fetch expenses", err)
	}

	return models.ExpensePage{
		Data:       page,
		Pagination: paginate(total, len(page), in.Limit, in.Offset),
	}, nil
}

func paginate(total, pageLen int, limit, offset *int) models.Pagination {
	p := models.Pagination{Total: total, PageSize: pageLen}
	size := defaultPageSize
	if limit != nil && *limit > 0 {
		p.PageSize = *limit
		size = *limit
	}
	if offset != nil && *offset > 0 {
		p.CurrentPage = *offset / size
	}
	return p
}

// GetAllForAdmin returns every matching expense without paging.
func (s *Service) GetAllForAdmin(ctx context.Context, in AdminListInput) ([]models.Expense, error) {
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}
	var f database.ExpenseFilter
	if in.Status != "" && in.Status != models.AllStatuses {
		f.Status = models.Status(in.Status)
	}
	list, err := s.store.List(ctx, f, database.ListOptions{SortBy: in.SortBy, Direction: in.SortDirection})
	if err != nil {
		return nil, translate("fetch expenses", err)
	}
	return list, nil
}

// GetByID returns NotFound both for a missing id and for another user's
// expense.
func (s *Service) GetByID(ctx context.Context, c auth.Caller, in IDInput) (models.Expense, error) {
	if err := validateInput(s.validate, in); err != nil {
		return models.Expense{}, err
	}
	e, err := s.store.Get(ctx, in.ID, scope(c))
	if err != nil {
		return models.Expense{}, translate("fetch expense", err)
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, c auth.Caller, in CreateInput) (CreateResult, error) {
	if err := validateInput(s.validate, in); err != nil {
		return CreateResult{}, err
	}
	e := models.Expense{
		Description: in.Description,
		Amount:      in.Amount,
		UserID:      c.ID,
		Category:    in.Category,
		Date:        s.now().UTC(),
	}
	if d := in.Date.ptr(); d != nil {
		e.Date = *d
	}
	if in.Notes != nil && *in.Notes != "" {
		e.Notes = in.Notes
	}
	id, err := s.store.Create(ctx, e)
	if err != nil {
		return CreateResult{}, translate("create expense", err)
	}
	return CreateResult{ID: id}, nil
}

// Update edits the caller's own expense while it is still pending.
func (s *Service) Update(ctx context.Context, c auth.Caller, in UpdateInput) (models.Expense, error) {
	if err := validateInput(s.validate, in); err != nil {
		return models.Expense{}, err
	}
	patch := database.ExpensePatch{
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date.ptr(),
		Notes:       in.Notes,
	}
	e, err := s.store.UpdatePending(ctx, in.ID, c.ID, patch)
	if err != nil {
		return models.Expense{}, translate("update expense", err)
	}
	return e, nil
}

// Approve and Reject do not check the current status; an admin may
// re-decide an expense at any time.
func (s *Service) Approve(ctx context.Context, in IDInput) (models.Expense, error) {
	if err := validateInput(s.validate, in); err != nil {
		return models.Expense{}, err
	}
	e, err := s.store.SetStatus(ctx, in.ID, models.StatusApproved, nil)
	if err != nil {
		return models.Expense{}, translate("approve expense", err)
	}
	return e, nil
}

func (s *Service) Reject(ctx context.Context, in RejectInput) (models.Expense, error) {
	if err := validateInput(s.validate, in); err != nil {
		return models.Expense{}, err
	}
	var notes *string
	if in.Notes != nil && *in.Notes != "" {
		notes = in.Notes
	}
	e, err := s.store.SetStatus(ctx, in.ID, models.StatusRejected, notes)
	if err != nil {
		return models.Expense{}, translate("reject expense", err)
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, c auth.Caller, in IDInput) ([]models.Expense, error) {
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}
	deleted, err := s.store.Delete(ctx, in.ID, scope(c))
	if err != nil {
		return nil, translate("delete expense", err)
	}
	return deleted, nil
}

// GetAnalytics groups the caller's own expenses.
func (s *Service) GetAnalytics(ctx context.Context, c auth.Caller, in AnalyticsInput) ([]models.AnalyticsRow, error) {
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}
	q := database.AggregateQuery{
		GroupBy: groupOrDefault(in.GroupBy),
		OwnerID: c.ID,
		Start:   in.StartDate.ptr(),
		End:     in.EndDate.ptr(),
	}
	if q.GroupBy.IsTimeBucket() {
		q.Order = database.OrderLabelAsc
	}
	rows, err := s.store.Aggregate(ctx, q)
	if err != nil {
		return nil, translate("fetch analytics", err)
	}
	return rows, nil
}

// GetTeamAnalytics groups everyone's expenses, largest total first.
func (s *Service) GetTeamAnalytics(ctx context.Context, in TeamAnalyticsInput) ([]models.AnalyticsRow, error) {
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}
	rows, err := s.store.Aggregate(ctx, database.AggregateQuery{
		GroupBy: groupOrDefault(in.GroupBy),
		Start:   in.StartDate.ptr(),
		End:     in.EndDate.ptr(),
		Order:   database.OrderTotalDesc,
	})
	if err != nil {
		return nil, translate("fetch team analytics", err)
	}
	return rows, nil
}

func groupOrDefault(g models.GroupBy) models.GroupBy {
	if g == "" {
		return models.GroupByCategory
	}
	return g
}

// Postgres error codes surfaced as bad input rather than server faults.
const (
	pqInvalidText         = "22P02"
	pqNumericOutOfRange   = "22003"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// translate maps store errors onto the procedure error taxonomy. The cause
// stays on the returned error for logging and is never sent to clients.
func translate(op string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFound("Expense not found")
	}
	var notPending *database.NotPendingError
	if errors.As(err, &notPending) {
		return apperr.BadRequest(fmt.Sprintf("Cannot update expense with status: %s", notPending.Status))
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return apperr.BadRequestWrap("Unknown user for expense", err)
		case pqNumericOutOfRange:
			return apperr.BadRequestWrap("Amount is out of range", err)
		case pqCheckViolation, pqInvalidText:
			return apperr.BadRequestWrap("Invalid expense data", err)
		}
	}
	if errors.Is(err, context.Canceled) {
		return apperr.Internal("Request cancelled", err)
	}
	return apperr.Internal("Failed to "+op, err)
}
