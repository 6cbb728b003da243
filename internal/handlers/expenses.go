package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/suyash01/expensehub/internal/auth"
	"github.com/suyash01/expensehub/internal/expenses"
	"github.com/suyash01/expensehub/internal/models"
)

func (h *Handler) expenseProcedures() []procedure {
	return []procedure{
		query("expense.getAll", auth.Employee, withInput(h.getAllExpenses)),
		query("expense.getAllForAdmin", auth.Admin, withInput(h.getAllExpensesForAdmin)),
		query("expense.getById", auth.Authenticated, withInput(h.getExpense)),
		mutation("expense.create", auth.Employee, withInput(h.createExpense)),
		mutation("expense.update", auth.Employee, withInput(h.updateExpense)),
		mutation("expense.approve", auth.Admin, withInput(h.approveExpense)),
		mutation("expense.reject", auth.Admin, withInput(h.rejectExpense)),
		mutation("expense.delete", auth.Authenticated, withInput(h.deleteExpense)),
	}
}

func (h *Handler) getAllExpenses(c *gin.Context, caller auth.Caller, in expenses.ListInput) (models.ExpensePage, error) {
	return h.expenses.GetAll(c.Request.Context(), caller, in)
}

func (h *Handler) getAllExpensesForAdmin(c *gin.Context, _ auth.Caller, in expenses.AdminListInput) ([]models.Expense, error) {
	return h.expenses.GetAllForAdmin(c.Request.Context(), in)
}

func (h *Handler) getExpense(c *gin.Context, caller auth.Caller, in expenses.IDInput) (models.Expense, error) {
	return h.expenses.GetByID(c.Request.Context(), caller, in)
}

func (h *Handler) createExpense(c *gin.Context, caller auth.Caller, in expenses.CreateInput) (expenses.CreateResult, error) {
	return h.expenses.Create(c.Request.Context(), caller, in)
}

func (h *Handler) updateExpense(c *gin.Context, caller auth.Caller, in expenses.UpdateInput) (models.Expense, error) {
	return h.expenses.Update(c.Request.Context(), caller, in)
}

func (h *Handler) approveExpense(c *gin.Context, _ auth.Caller, in expenses.IDInput) (models.Expense, error) {
	return h.expenses.Approve(c.Request.Context(), in)
}

func (h *Handler) rejectExpense(c *gin.Context, _ auth.Caller, in expenses.RejectInput) (models.Expense, error) {
	return h.expenses.Reject(c.Request.Context(), in)
}

func (h *Handler) deleteExpense(c *gin.Context, caller auth.Caller, in expenses.IDInput) ([]models.Expense, error) {
	return h.expenses.Delete(c.Request.Context(), caller, in)
}
