package result

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bondaralexcy/medical-diagnostic/internal/handler"
	"github.com/bondaralexcy/medical-diagnostic/internal/model"
	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
	"github.com/bondaralexcy/medical-diagnostic/pkg/httputil"
)

type Service interface {
	CreateResult(ctx context.Context, acc *model.Account, req *model.CreateResultRequest) (*model.Result, error)
	GetResult(ctx context.Context, acc *model.Account, id uuid.UUID) (*model.Result, error)
	ListResults(ctx context.Context, acc *model.Account, patientID uuid.UUID) ([]*model.Result, error)
	UpdateResult(ctx context.Context, acc *model.Account, id uuid.UUID, req *model.UpdateResultRequest) (*model.Result, error)
	DeleteResult(ctx context.Context, acc *model.Account, id uuid.UUID) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	results := r.Group("/results")
	{
		results.POST("", h.CreateResult)
		results.GET("", h.ListResults)
		results.GET("/:id", h.GetResult)
		results.PUT("/:id", h.UpdateResult)
		results.DELETE("/:id", h.DeleteResult)
	}
}

func (h *Handler) CreateResult(c *gin.Context) {
	var req model.CreateResultRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	res, err := h.service.CreateResult(c.Request.Context(), handler.Account(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, res)
}

// ListResults lists one patient's results; patient_id is required.
func (h *Handler) ListResults(c *gin.Context) {
	patientID, ok := handler.QueryUUID(c, "patient_id")
	if !ok {
		return
	}
	if patientID == nil {
		httputil.RespondWithError(c, errors.Validation(map[string]string{"patient_id": "this field is required"}))
		return
	}

	results, err := h.service.ListResults(c.Request.Context(), handler.Account(c), *patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, results)
}

func (h *Handler) GetResult(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.GetResult(c.Request.Context(), handler.Account(c), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, res)
}

func (h *Handler) UpdateResult(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateResultRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	res, err := h.service.UpdateResult(c.Request.Context(), handler.Account(c), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, res)
}

func (h *Handler) DeleteResult(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteResult(c.Request.Context(), handler.Account(c), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
