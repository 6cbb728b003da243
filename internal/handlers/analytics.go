package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/suyash01/expensehub/internal/auth"
	"github.com/suyash01/expensehub/internal/expenses"
	"github.com/suyash01/expensehub/internal/models"
)

func (h *Handler) analyticsProcedures() []procedure {
	return []procedure{
		query("expense.getAnalytics", auth.Authenticated, withInput(h.getAnalytics)),
		// Team totals expose every user's spending, so admin only.
		query("expense.getTeamAnalytics", auth.Admin, withInput(h.getTeamAnalytics)),
	}
}

func (h *Handler) getAnalytics(c *gin.Context, caller auth.Caller, in expenses.AnalyticsInput) ([]models.AnalyticsRow, error) {
	return h.expenses.GetAnalytics(c.Request.Context(), caller, in)
}

func (h *Handler) getTeamAnalytics(c *gin.Context, _ auth.Caller, in expenses.TeamAnalyticsInput) ([]models.AnalyticsRow, error) {
	return h.expenses.GetTeamAnalytics(c.Request.Context(), in)
}
