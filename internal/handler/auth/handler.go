package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bondaralexcy/medical-diagnostic/internal/handler"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/httputil"
)

type Service interface {
	Register(ctx context.Context, req *model.RegisterRequest, linkBase string) (*model.Account, error)
	Activate(ctx context.Context, token string) (*model.Account, error)
	ResendActivation(ctx context.Context, req *model.EmailRequest, linkBase string) error
	ResetPassword(ctx context.Context, req *model.EmailRequest) error
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
}

type Handler struct {
	svc       Service
	publicURL string
}

// NewHandler builds the anonymous account endpoints. Activation links point
// at publicURL, or at the request's own host when it is empty.
func NewHandler(svc Service, publicURL string) *Handler {
	return &Handler{svc: svc, publicURL: publicURL}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/email-confirm/:token", h.ConfirmEmail)
		auth.POST("/resend-activation", h.ResendActivation)
		auth.POST("/reset-password", h.ResetPassword)
	}
}

func (h *Handler) linkBase(c *gin.Context) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	account, err := h.svc.Register(c.Request.Context(), &req, h.linkBase(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, &httputil.Response{
		Status:  "success",
		Message: "check your email to activate the account",
		Data:    account,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, tokens)
}

func (h *Handler) ConfirmEmail(c *gin.Context) {
	account, err := h.svc.Activate(c.Request.Context(), c.Param("token"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, &httputil.Response{
		Status:  "success",
		Message: "account activated",
		Data:    account,
	})
}

func (h *Handler) ResendActivation(c *gin.Context) {
	var req model.EmailRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	if err := h.svc.ResendActivation(c.Request.Context(), &req, h.linkBase(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "activation link sent")
}

// ResetPassword mails a new random password to the given address. The
// endpoint trusts the mailbox: whoever reads it owns the account.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.EmailRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "a new password has been sent to your email")
}
