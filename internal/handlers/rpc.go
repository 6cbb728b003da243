package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/suyash01/expensehub/internal/apperr"
	"github.com/suyash01/expensehub/internal/auth"
)

const callerKey = "caller"

// procedure is one RPC endpoint. Queries are served on GET and POST,
// mutations on POST only.
type procedure struct {
	name     string
	guard    auth.Guard
	mutation bool
	run      func(c *gin.Context, caller auth.Caller) (any, error)
}

func query(name string, guard auth.Guard, run func(*gin.Context, auth.Caller) (any, error)) procedure {
	return procedure{name: name, guard: guard, run: run}
}

func mutation(name string, guard auth.Guard, run func(*gin.Context, auth.Caller) (any, error)) procedure {
	return procedure{name: name, guard: guard, mutation: true, run: run}
}

func (h *Handler) mount(g *gin.RouterGroup, procs []procedure) {
	for _, p := range procs {
		chain := []gin.HandlerFunc{h.requireGuard(p.guard), h.serve(p)}
		if !p.mutation {
			g.GET("/"+p.name, chain...)
		}
		g.POST("/"+p.name, chain...)
	}
}

func (h *Handler) serve(p procedure) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := c.Get(callerKey)
		cl, _ := caller.(auth.Caller)
		result, err := p.run(c, cl)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

// bindInput decodes the procedure input from ?input= on GET requests and
// from the body otherwise. A missing input leaves the zero value.
func bindInput[T any](c *gin.Context) (T, error) {
	var in T
	var raw []byte
	if c.Request.Method == http.MethodGet {
		raw = []byte(c.Query("input"))
	} else {
		b, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			return in, apperr.BadRequestWrap("Invalid input", err)
		}
		raw = b
	}
	if len(raw) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, apperr.BadRequestWrap("Invalid input", err)
	}
	return in, nil
}

// fail renders err as the error envelope. Causes are logged, never sent.
func (h *Handler) fail(c *gin.Context, err error) {
	e := apperr.From(err)
	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("code", e.Kind.Code()),
		zap.Error(err),
	}
	if e.Kind == apperr.KindInternal {
		h.log.Error("procedure_failed", fields...)
	} else {
		h.log.Debug("procedure_rejected", fields...)
	}
	c.AbortWithStatusJSON(e.Kind.HTTPStatus(), gin.H{
		"error": gin.H{"code": e.Kind.Code(), "message": e.Message},
	})
}

// withInput adapts a typed procedure body to the procedure signature.
func withInput[T, R any](fn func(c *gin.Context, caller auth.Caller, in T) (R, error)) func(*gin.Context, auth.Caller) (any, error) {
	return func(c *gin.Context, caller auth.Caller) (any, error) {
		in, err := bindInput[T](c)
		if err != nil {
			return nil, err
		}
		return fn(c, caller, in)
	}
}
