package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryTravel        Category = "Travel"
	CategoryUtility       Category = "Utility"
	CategoryGrocery       Category = "Grocery"
	CategoryFood          Category = "Food"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryMedical       Category = "Medical"
	CategoryFitness       Category = "Fitness"
	CategoryServices      Category = "Services"
	CategoryOther         Category = "Other"
)

// Categories is the fixed category set. The expense_category enum type is
// created from this slice, so order matters for migrations.
var Categories = []Category{
	CategoryTravel,
	CategoryUtility,
	CategoryGrocery,
	CategoryFood,
	CategoryShopping,
	CategoryEntertainment,
	CategoryMedical,
	CategoryFitness,
	CategoryServices,
	CategoryOther,
}

// AllCategories is the list filter value meaning "no category filter".
const AllCategories = "All"

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses backs the expense_status enum type.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// AllStatuses is the list filter value meaning "no status filter".
const AllStatuses = "all"

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

type Expense struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	UserID      string          `json:"userId"`
	Category    Category        `json:"category"`
	Status      Status          `json:"status"`
	Notes       *string         `json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	// SubmittedBy is the owner's display name; only set by joined reads.
	SubmittedBy *string `json:"submittedBy,omitempty"`
}

func (e Expense) IsPending() bool {
	return e.Status == StatusPending
}

type Pagination struct {
	Total       int `json:"total"`
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
}

type ExpensePage struct {
	Data       []Expense  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type SortBy string

const (
	SortByDate        SortBy = "date"
	SortByAmount      SortBy = "amount"
	SortByDescription SortBy = "description"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)
