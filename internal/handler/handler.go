// Package handler holds the request plumbing shared by the resource
// handlers in its subpackages.
package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/middleware"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
	"github.com/bondaralexcy/medical-diagnostic/pkg/httputil"
)

// Routes is implemented by every resource handler.
type Routes interface {
	RegisterRoutes(*gin.RouterGroup)
}

// PublicRoutes is implemented by handlers that also serve anonymous callers.
type PublicRoutes interface {
	RegisterPublicRoutes(*gin.RouterGroup)
}

// BindJSON decodes the request body into dest, answering 400 on failure.
func BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		httputil.RespondWithError(c, errors.BadRequest(fmt.Sprintf("invalid request body: %v", err), err))
		return false
	}
	return true
}

// ParamUUID parses the named path parameter, answering 400 on failure.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest(fmt.Sprintf("invalid %s", name), err))
		return uuid.Nil, false
	}
	return id, true
}

// QueryUUID parses an optional query parameter. An absent parameter yields nil.
func QueryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.RespondWithError(c, errors.BadRequest(fmt.Sprintf("invalid %s", name), err))
		return nil, false
	}
	return &id, true
}

// Account returns the authenticated caller.
func Account(c *gin.Context) *model.Account {
	return middleware.CurrentAccount(c)
}
