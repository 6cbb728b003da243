package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suyash01/expensehub/internal/auth"
	"github.com/suyash01/expensehub/internal/models"
	"github.com/suyash01/expensehub/internal/users"
)

type noInput struct{}

func (h *Handler) userProcedures() []procedure {
	return []procedure{
		query("user.getRole", auth.Authenticated, withInput(h.getRole)),
		query("user.getAll", auth.Admin, withInput(h.getUsers)),
		mutation("user.assignRole", auth.Admin, withInput(h.assignRole)),
		mutation("user.banUser", auth.Admin, withInput(h.banUser)),
		mutation("user.unbanUser", auth.Admin, withInput(h.unbanUser)),
	}
}

// HandleRole reports the caller's role for clients that do not speak RPC.
func (h *Handler) HandleRole(c *gin.Context) {
	caller, ok := auth.CallerFrom(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"role": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": h.users.GetRole(caller)})
}

func (h *Handler) getRole(_ *gin.Context, caller auth.Caller, _ noInput) (models.Role, error) {
	return h.users.GetRole(caller), nil
}

func (h *Handler) getUsers(c *gin.Context, _ auth.Caller, _ noInput) ([]models.User, error) {
	return h.users.GetAll(c.Request.Context(), c.Request.Header)
}

func (h *Handler) assignRole(c *gin.Context, _ auth.Caller, in users.AssignRoleInput) (users.Result, error) {
	return h.users.AssignRole(c.Request.Context(), c.Request.Header, in)
}

func (h *Handler) banUser(c *gin.Context, _ auth.Caller, in users.BanInput) (users.Result, error) {
	return h.users.BanUser(c.Request.Context(), c.Request.Header, in)
}

func (h *Handler) unbanUser(c *gin.Context, _ auth.Caller, in users.UnbanInput) (users.Result, error) {
	return h.users.UnbanUser(c.Request.Context(), c.Request.Header, in)
}
