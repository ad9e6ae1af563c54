// File: internal/strategy/handler.go
package strategy

import (
	"errors"

	"strategy_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles strategy related HTTP requests.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new strategy handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("StrategyHandler"),
	}
}

// RegisterRoutes sets up the strategy routes. All routes require auth.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	strategies := router.Group("/strategies", authMW)
	{
		strategies.POST("", h.create)
		strategies.GET("", h.list)
		strategies.GET("/:id", h.get)
		strategies.PATCH("/:id", h.update)
		strategies.DELETE("/:id", h.delete)
	}
}

func (h *Handler) bindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload."))
}

func (h *Handler) create(c *gin.Context) {
	userID, ok := common.GetUserIDFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req CreateStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Strategy created successfully.", created)
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := common.GetUserIDFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindError(c, err)
		return
	}

	strategies, pagination, err := h.service.List(c.Request.Context(), userID, query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondPaginated(c, "", strategies, pagination)
}

func (h *Handler) get(c *gin.Context) {
	userID, ok := common.GetUserIDFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid strategy ID."))
		return
	}

	found, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "", found)
}

func (h *Handler) update(c *gin.Context) {
	userID, ok := common.GetUserIDFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid strategy ID."))
		return
	}

	var req UpdateStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Strategy updated successfully.", updated)
}

func (h *Handler) delete(c *gin.Context) {
	userID, ok := common.GetUserIDFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid strategy ID."))
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondNoContent(c)
}
