package expenses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suyash01/expensehub/internal/models"
)

// Timestamp accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
type Timestamp struct {
	time.Time
}

// A datetime must carry its zone; a bare date is a UTC calendar day.
var timestampLayouts = []string{time.RFC3339Nano, time.DateOnly}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (t *Timestamp) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

type ListInput struct {
	Status        string               `json:"status" validate:"omitempty,status_filter"`
	Category      string               `json:"category" validate:"omitempty,category_filter"`
	SearchTerm    string               `json:"searchTerm"`
	DateFrom      *Timestamp           `json:"dateFrom"`
	DateTo        *Timestamp           `json:"dateTo"`
	SortBy        models.SortBy        `json:"sortBy" validate:"omitempty,oneof=date amount description"`
	SortDirection models.SortDirection `json:"sortDirection" validate:"omitempty,oneof=asc desc"`
	Limit         *int                 `json:"limit" validate:"omitempty,min=0"`
	Offset        *int                 `json:"offset" validate:"omitempty,min=0"`
}

type AdminListInput struct {
	Status        string               `json:"status" validate:"omitempty,status_filter"`
	SortBy        models.SortBy        `json:"sortBy" validate:"omitempty,oneof=date amount description"`
	SortDirection models.SortDirection `json:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

type IDInput struct {
	ID int64 `json:"id" validate:"required"`
}

type CreateInput struct {
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"positive,money"`
	Category    models.Category `json:"category" validate:"category"`
	Date        *Timestamp      `json:"date"`
	Notes       *string         `json:"notes"`
}

// UpdateInput carries the fields to change; nil fields are left alone.
type UpdateInput struct {
	ID          int64            `json:"id" validate:"required"`
	Description *string          `json:"description" validate:"omitnil,min=1"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitnil,positive,money"`
	Category    *models.Category `json:"category" validate:"omitnil,category"`
	Date        *Timestamp       `json:"date"`
	Notes       *string          `json:"notes"`
}

type RejectInput struct {
	ID    int64   `json:"id" validate:"required"`
	Notes *string `json:"notes"`
}

type AnalyticsInput struct {
	StartDate *Timestamp     `json:"startDate"`
	EndDate   *Timestamp     `json:"endDate"`
	GroupBy   models.GroupBy `json:"groupBy" validate:"omitempty,oneof=category status day month year"`
}

type TeamAnalyticsInput struct {
	StartDate *Timestamp     `json:"startDate"`
	EndDate   *Timestamp     `json:"endDate"`
	GroupBy   models.GroupBy `json:"groupBy" validate:"omitempty,oneof=category status user day month year"`
}

type CreateResult struct {
	ID int64 `json:"id"`
}
