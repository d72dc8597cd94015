package account

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/handler"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/httputil"
)

type Service interface {
	Profile(ctx context.Context, id uuid.UUID) (*model.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Account, error)
	List(ctx context.Context, actor *model.Account) ([]*model.Account, error)
	SetRoles(ctx context.Context, actor *model.Account, id uuid.UUID, req *model.RolesRequest) (*model.Account, error)
}

type Handler struct {
	service Service
	admin   gin.HandlerFunc
}

// NewHandler serves the caller's profile and, behind admin, account
// management.
func NewHandler(service Service, admin gin.HandlerFunc) *Handler {
	return &Handler{service: service, admin: admin}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	profile := r.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}

	accounts := r.Group("/accounts")
	if h.admin != nil {
		accounts.Use(h.admin)
	}
	{
		accounts.GET("", h.ListAccounts)
		accounts.PUT("/:id/roles", h.SetRoles)
	}
}

func (h *Handler) GetProfile(c *gin.Context) {
	account, err := h.service.Profile(c.Request.Context(), handler.Account(c).ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, account)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	account, err := h.service.UpdateProfile(c.Request.Context(), handler.Account(c).ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, account)
}

func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.List(c.Request.Context(), handler.Account(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, accounts)
}

func (h *Handler) SetRoles(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.RolesRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	account, err := h.service.SetRoles(c.Request.Context(), handler.Account(c), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, account)
}
