package models

import "github.com/shopspring/decimal"

type GroupBy string

const (
	GroupByCategory GroupBy = "category"
	GroupByStatus   GroupBy = "status"
	GroupByUser     GroupBy = "user"
	GroupByDay      GroupBy = "day"
	GroupByMonth    GroupBy = "month"
	GroupByYear     GroupBy = "year"
)

// IsTimeBucket reports whether the grouping buckets by calendar period.
func (g GroupBy) IsTimeBucket() bool {
	return g == GroupByDay || g == GroupByMonth || g == GroupByYear
}

// AnalyticsRow is one group of an aggregation. Group is the raw key
// (category, status, user id or bucket label); Label is what a chart shows.
type AnalyticsRow struct {
	Group string          `json:"group"`
	Label string          `json:"label"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}
