// Package handlers serves the RPC procedures and plain endpoints over gin.
package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/suyash01/expensehub/internal/auth"
	"github.com/suyash01/expensehub/internal/expenses"
	"github.com/suyash01/expensehub/internal/users"
)

type Handler struct {
	expenses *expenses.Service
	users    *users.Service
	resolver *auth.Resolver
	log      *zap.Logger
}

type Deps struct {
	Expenses   *expenses.Service
	Users      *users.Service
	Resolver   *auth.Resolver
	AuthProxy  http.Handler
	CORSOrigin string
	Log        *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	h := &Handler{
		expenses: d.Expenses,
		users:    d.Users,
		resolver: d.Resolver,
		log:      d.Log.Named("http"),
	}

	r := gin.New()
	r.Use(requestID(), requestLogger(h.log), recovery(h.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
	}))

	r.GET("/", HandleHome)

	if d.AuthProxy != nil {
		r.GET("/api/auth/*path", gin.WrapH(d.AuthProxy))
		r.POST("/api/auth/*path", gin.WrapH(d.AuthProxy))
	}

	r.GET("/api/users/role", h.resolveCaller(), h.HandleRole)

	rpc := r.Group("/rpc", h.resolveCaller())
	h.mount(rpc, []procedure{healthCheck})
	h.mount(rpc, h.expenseProcedures())
	h.mount(rpc, h.analyticsProcedures())
	h.mount(rpc, h.userProcedures())

	return r
}
