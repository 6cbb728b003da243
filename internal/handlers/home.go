package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suyash01/expensehub/internal/auth"
)

func HandleHome(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

var healthCheck = query("healthCheck", auth.Public, func(*gin.Context, auth.Caller) (any, error) {
	return "OK", nil
})
