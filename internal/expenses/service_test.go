package expenses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/suyash01/expensehub/internal/apperr"
	"github.com/suyash01/expensehub/internal/auth"
	"github.com/suyash01/expensehub/internal/database"
	"github.com/suyash01/expensehub/internal/models"
)

var (
	alice = auth.Caller{ID: "u1", Name: "Alice", Role: models.RoleUser}
	bob   = auth.Caller{ID: "u2", Name: "Bob", Role: models.RoleUser}
	ada   = auth.Caller{ID: "admin", Name: "Ada", Role: models.RoleAdmin}
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func ts(t time.Time) *Timestamp { return &Timestamp{Time: t} }

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC) }
	return svc, store
}

func expense(owner string, amount string, date time.Time) models.Expense {
	return models.Expense{
		Description: "expense",
		Amount:      decimal.RequireFromString(amount),
		UserID:      owner,
		Category:    models.CategoryFood,
		Date:        date,
	}
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	svc, store := newTestService()
	cases := []struct {
		name string
		in   CreateInput
		msg  string
	}{
		{"zero amount", CreateInput{Description: "x", Amount: decimal.Zero, Category: models.CategoryFood}, "Amount must be positive"},
		{"negative amount", CreateInput{Description: "x", Amount: decimal.RequireFromString("-1.50"), Category: models.CategoryFood}, "Amount must be positive"},
		{"unknown category", CreateInput{Description: "x", Amount: decimal.NewFromInt(1), Category: "Gadgets"}, "Category must be one of"},
		{"lowercase category", CreateInput{Description: "x", Amount: decimal.NewFromInt(1), Category: "food"}, "Category must be one of"},
		{"empty description", CreateInput{Amount: decimal.NewFromInt(1), Category: models.CategoryFood}, "Description is required"},
		{"sub-cent amount", CreateInput{Description: "x", Amount: decimal.RequireFromString("0.001"), Category: models.CategoryFood}, "at most 2 decimal places"},
		{"half-cent amount", CreateInput{Description: "x", Amount: decimal.RequireFromString("0.005"), Category: models.CategoryFood}, "at most 2 decimal places"},
		{"amount too large", CreateInput{Description: "x", Amount: decimal.RequireFromString("1e9"), Category: models.CategoryFood}, "less than 100000000"},
		{"amount at column limit", CreateInput{Description: "x", Amount: decimal.NewFromInt(100_000_000), Category: models.CategoryFood}, "less than 100000000"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), alice, c.in)
			if !apperr.Is(err, apperr.KindBadRequest) {
				t.Fatalf("err=%v want BadRequest", err)
			}
			if !strings.Contains(apperr.From(err).Message, c.msg) {
				t.Fatalf("message=%q want %q", apperr.From(err).Message, c.msg)
			}
		})
	}
	if len(store.created) != 0 {
		t.Fatalf("store touched on invalid input: %d rows", len(store.created))
	}
}

func TestCreate_Defaults(t *testing.T) {
	svc, store := newTestService()
	res, err := svc.Create(context.Background(), alice, CreateInput{
		Description: "Lunch",
		Amount:      decimal.RequireFromString("12.30"),
		Category:    models.CategoryFood,
		Notes:       strPtr(""),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.ID == 0 {
		t.Fatal("expected id")
	}
	got := store.created[0]
	if got.UserID != "u1" {
		t.Fatalf("owner=%s want caller", got.UserID)
	}
	if !got.Date.Equal(svc.now()) {
		t.Fatalf("date=%v want now", got.Date)
	}
	if got.Notes != nil {
		t.Fatalf("empty notes should be stored as null, got %q", *got.Notes)
	}
	if got.Status != models.StatusPending {
		t.Fatalf("status=%s", got.Status)
	}
}

func TestCreate_ForeignKeyViolationIsBadRequest(t *testing.T) {
	svc, store := newTestService()
	store.err = fmt.Errorf("insert expense: %w", &pq.Error{Code: "23503"})
	_, err := svc.Create(context.Background(), alice, CreateInput{
		Description: "x", Amount: decimal.NewFromInt(1), Category: models.CategoryOther,
	})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("err=%v want BadRequest", err)
	}
}

func TestCreate_NumericOverflowIsBadRequest(t *testing.T) {
	svc, store := newTestService()
	store.err = fmt.Errorf("insert expense: %w", &pq.Error{Code: "22003"})
	_, err := svc.Create(context.Background(), alice, CreateInput{
		Description: "x", Amount: decimal.NewFromInt(1), Category: models.CategoryOther,
	})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("err=%v want BadRequest", err)
	}
}

func TestCreate_AcceptsLargestStorableAmount(t *testing.T) {
	svc, store := newTestService()
	for _, amount := range []string{"99999999.99", "0.01", "12.300"} {
		_, err := svc.Create(context.Background(), alice, CreateInput{
			Description: "x", Amount: decimal.RequireFromString(amount), Category: models.CategoryOther,
		})
		if err != nil {
			t.Fatalf("amount %s: %v", amount, err)
		}
	}
	if len(store.created) != 3 {
		t.Fatalf("created=%d want 3", len(store.created))
	}
}

func TestGetAll_ScopesNonAdminToOwnRecords(t *testing.T) {
	svc, store := newTestService()
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		store.add(expense("u1", "1", day))
		store.add(expense("u2", "1", day))
	}

	page, err := svc.GetAll(context.Background(), alice, ListInput{})
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	for _, e := range page.Data {
		if e.UserID != alice.ID {
			t.Fatalf("got %s's expense as %s", e.UserID, alice.ID)
		}
	}
	if page.Pagination.Total != 3 {
		t.Fatalf("total=%d want 3", page.Pagination.Total)
	}

	page, err = svc.GetAll(context.Background(), ada, ListInput{})
	if err != nil {
		t.Fatalf("get all as admin: %v", err)
	}
	if page.Pagination.Total != 6 {
		t.Fatalf("admin total=%d want 6", page.Pagination.Total)
	}
}

func TestGetAll_Pagination(t *testing.T) {
	svc, store := newTestService()
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		store.add(expense("u1", "1", day.AddDate(0, 0, i)))
	}

	page, err := svc.GetAll(context.Background(), alice, ListInput{Limit: intPtr(10), Offset: intPtr(20)})
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(page.Data) != 5 {
		t.Fatalf("len=%d want 5", len(page.Data))
	}
	want := models.Pagination{Total: 25, PageSize: 10, CurrentPage: 2}
	if page.Pagination != want {
		t.Fatalf("pagination=%+v want %+v", page.Pagination, want)
	}
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		name          string
		limit, offset *int
		pageLen       int
		want          models.Pagination
	}{
		{"no paging", nil, nil, 7, models.Pagination{Total: 30, PageSize: 7}},
		{"offset without limit uses 10", nil, intPtr(25), 5, models.Pagination{Total: 30, PageSize: 5, CurrentPage: 2}},
		{"zero offset", intPtr(5), intPtr(0), 5, models.Pagination{Total: 30, PageSize: 5}},
		{"zero limit falls back", intPtr(0), intPtr(20), 0, models.Pagination{Total: 30, PageSize: 0, CurrentPage: 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := paginate(30, c.pageLen, c.limit, c.offset); got != c.want {
				t.Fatalf("got %+v want %+v", got, c.want)
			}
		})
	}
}

func TestGetAll_DateWindow(t *testing.T) {
	svc, store := newTestService()
	d1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	store.add(expense("u1", "1", d1))
	store.add(expense("u1", "1", d2))

	page, err := svc.GetAll(context.Background(), alice, ListInput{DateFrom: ts(d1), DateTo: ts(d2)})
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("between: len=%d want 2", len(page.Data))
	}

	page, err = svc.GetAll(context.Background(), alice, ListInput{DateFrom: ts(d1)})
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(page.Data) != 1 || !page.Data[0].Date.Equal(d2) {
		t.Fatalf("from only: %+v want only the later row", page.Data)
	}
}

func TestGetAll_FilterValues(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.GetAll(context.Background(), alice, ListInput{Status: "all", Category: "All"}); err != nil {
		t.Fatalf("all/All should be accepted: %v", err)
	}
	if _, err := svc.GetAll(context.Background(), alice, ListInput{Status: "archived"}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("err=%v want BadRequest", err)
	}
	if _, err := svc.GetAll(context.Background(), alice, ListInput{SortBy: "user_id"}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("err=%v want BadRequest", err)
	}
}

func TestGetAll_StoreFailureIsInternal(t *testing.T) {
	svc, store := newTestService()
	store.err = errors.New("connection reset")
	_, err := svc.GetAll(context.Background(), alice, ListInput{})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("err=%v want Internal", err)
	}
	if strings.Contains(apperr.From(err).Message, "connection reset") {
		t.Fatalf("cause leaked into message: %q", apperr.From(err).Message)
	}
}

func TestGetByID_HidesOtherUsersRecords(t *testing.T) {
	svc, store := newTestService()
	own := store.add(expense("u2", "1", time.Now()))

	_, errOther := svc.GetByID(context.Background(), alice, IDInput{ID: own.ID})
	_, errMissing := svc.GetByID(context.Background(), alice, IDInput{ID: 999})
	for _, err := range []error{errOther, errMissing} {
		if !apperr.Is(err, apperr.KindNotFound) || apperr.From(err).Message != "Expense not found" {
			t.Fatalf("err=%v want NotFound", err)
		}
	}

	if _, err := svc.GetByID(context.Background(), bob, IDInput{ID: own.ID}); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), ada, IDInput{ID: own.ID}); err != nil {
		t.Fatalf("admin: %v", err)
	}
}

func TestUpdate_NonPendingIsBadRequest(t *testing.T) {
	for _, status := range []models.Status{models.StatusApproved, models.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			svc, store := newTestService()
			e := expense("u1", "1", time.Now())
			e.Status = status
			e = store.add(e)

			_, err := svc.Update(context.Background(), alice, UpdateInput{ID: e.ID, Description: strPtr("new")})
			if !apperr.Is(err, apperr.KindBadRequest) {
				t.Fatalf("err=%v want BadRequest", err)
			}
			if want := "Cannot update expense with status: " + string(status); apperr.From(err).Message != want {
				t.Fatalf("message=%q want %q", apperr.From(err).Message, want)
			}
		})
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, store := newTestService()
	e := store.add(expense("u1", "10", time.Now()))

	amount := decimal.RequireFromString("20.25")
	updated, err := svc.Update(context.Background(), alice, UpdateInput{ID: e.ID, Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Amount.Equal(amount) || updated.Description != "expense" {
		t.Fatalf("updated=%+v", updated)
	}

	if _, err := svc.Update(context.Background(), bob, UpdateInput{ID: e.ID, Amount: &amount}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("other owner err=%v want NotFound", err)
	}
	if _, err := svc.Update(context.Background(), alice, UpdateInput{ID: e.ID, Description: strPtr("")}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("empty description err=%v want BadRequest", err)
	}
	zero := decimal.Zero
	if _, err := svc.Update(context.Background(), alice, UpdateInput{ID: e.ID, Amount: &zero}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("zero amount err=%v want BadRequest", err)
	}
	subCent := decimal.RequireFromString("20.255")
	if _, err := svc.Update(context.Background(), alice, UpdateInput{ID: e.ID, Amount: &subCent}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("sub-cent amount err=%v want BadRequest", err)
	}
}

func TestApprove_OverridesRejected(t *testing.T) {
	svc, store := newTestService()
	e := expense("u1", "1", time.Now())
	e.Status = models.StatusRejected
	e = store.add(e)

	got, err := svc.Approve(context.Background(), IDInput{ID: e.ID})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Fatalf("status=%s want approved", got.Status)
	}
	if _, err := svc.Approve(context.Background(), IDInput{ID: 404}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err=%v want NotFound", err)
	}
}

func TestReject_Notes(t *testing.T) {
	svc, store := newTestService()
	e := store.add(expense("u1", "1", time.Now()))

	got, err := svc.Reject(context.Background(), RejectInput{ID: e.ID, Notes: strPtr("no receipt")})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != models.StatusRejected || got.Notes == nil || *got.Notes != "no receipt" {
		t.Fatalf("rejected=%+v", got)
	}
	got, err = svc.Reject(context.Background(), RejectInput{ID: e.ID, Notes: strPtr("")})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Notes == nil || *got.Notes != "no receipt" {
		t.Fatal("empty notes should keep the existing notes")
	}
}

func TestDelete_Scope(t *testing.T) {
	svc, store := newTestService()
	e := store.add(expense("u1", "1", time.Now()))

	if _, err := svc.Delete(context.Background(), bob, IDInput{ID: e.ID}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err=%v want NotFound", err)
	}
	deleted, err := svc.Delete(context.Background(), ada, IDInput{ID: e.ID})
	if err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != e.ID {
		t.Fatalf("deleted=%+v", deleted)
	}
}

func TestGetAnalytics_Query(t *testing.T) {
	svc, store := newTestService()
	store.aggRows = []models.AnalyticsRow{
		{Group: "2025-04", Label: "2025-04", Count: 1, Total: decimal.RequireFromString("100.00")},
		{Group: "2025-05", Label: "2025-05", Count: 2, Total: decimal.RequireFromString("250.50")},
	}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	rows, err := svc.GetAnalytics(context.Background(), alice, AnalyticsInput{
		GroupBy: models.GroupByMonth, StartDate: ts(start), EndDate: ts(end),
	})
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	q := store.lastAgg
	if q.OwnerID != alice.ID || q.Order != database.OrderLabelAsc || !q.Start.Equal(start) || !q.End.Equal(end) {
		t.Fatalf("query=%+v", q)
	}

	if _, err := svc.GetAnalytics(context.Background(), ada, AnalyticsInput{}); err != nil {
		t.Fatalf("default grouping: %v", err)
	}
	if store.lastAgg.GroupBy != models.GroupByCategory || store.lastAgg.Order != database.OrderNone {
		t.Fatalf("query=%+v want category, unordered", store.lastAgg)
	}
	if store.lastAgg.OwnerID != ada.ID {
		t.Fatal("self analytics must stay scoped even for admins")
	}

	if _, err := svc.GetAnalytics(context.Background(), alice, AnalyticsInput{GroupBy: models.GroupByUser}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("user grouping is team-only, err=%v", err)
	}
}

func TestGetTeamAnalytics_Query(t *testing.T) {
	svc, store := newTestService()
	if _, err := svc.GetTeamAnalytics(context.Background(), TeamAnalyticsInput{GroupBy: models.GroupByUser}); err != nil {
		t.Fatalf("team analytics: %v", err)
	}
	q := store.lastAgg
	if q.OwnerID != "" || q.Order != database.OrderTotalDesc || q.GroupBy != models.GroupByUser {
		t.Fatalf("query=%+v", q)
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	var in AnalyticsInput
	err := json.Unmarshal([]byte(`{"startDate":"2025-04-01","endDate":"2025-04-30T23:59:59Z"}`), &in)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.StartDate.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start=%v", in.StartDate.Time)
	}
	if in.EndDate.Hour() != 23 {
		t.Fatalf("end=%v", in.EndDate.Time)
	}
	if err := json.Unmarshal([]byte(`{"startDate":"yesterday"}`), &in); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestTimestamp_RejectsZonelessDatetime(t *testing.T) {
	var in AnalyticsInput
	if err := json.Unmarshal([]byte(`{"startDate":"2025-04-01T10:00:00"}`), &in); err == nil {
		t.Fatalf("zoneless datetime accepted as %v", in.StartDate.Time)
	}

	if err := json.Unmarshal([]byte(`{"startDate":"2025-04-01T10:00:00+05:30"}`), &in); err != nil {
		t.Fatalf("offset datetime: %v", err)
	}
	if want := time.Date(2025, 4, 1, 4, 30, 0, 0, time.UTC); !in.StartDate.Equal(want) || in.StartDate.Location() != time.UTC {
		t.Fatalf("start=%v want %v", in.StartDate.Time, want)
	}
}
