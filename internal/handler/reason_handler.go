package handler

import (
	"net/http"

	"removal-backend/internal/middleware"
	"removal-backend/internal/service"
	"removal-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReasonHandler struct {
	reasonService service.ReasonService
}

func NewReasonHandler(reasonService service.ReasonService) *ReasonHandler {
	return &ReasonHandler{reasonService: reasonService}
}

func (h *ReasonHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/removal-reasons", middleware.RequireAuth(), h.ListReasons)
}

// ListReasons returns the static removal-reason catalog
// @Summary      List removal reasons
// @Tags         reasons
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.RemovalReason}
// @Router       /api/removal-reasons [get]
func (h *ReasonHandler) ListReasons(c *gin.Context) {
	reasons, err := h.reasonService.ListReasons(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, reasons))
}
