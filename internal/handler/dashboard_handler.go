package handler

import (
	"net/http"
	"strconv"

	"removal-backend/internal/middleware"
	"removal-backend/internal/service"
	"removal-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/dashboard", middleware.RequireAuth(), h.GetDashboard)
}

// GetDashboard returns request counts, approval rate and recent activity
// @Summary      Dashboard
// @Description  Aggregated counts, approval rate and recent activity for the authenticated actor
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        recent  query     int  false  "Number of recent activity entries (default 5)"
// @Success      200     {object}  response.Response{data=service.DashboardResponse}
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	recent, _ := strconv.Atoi(c.DefaultQuery("recent", "5"))

	stats, err := h.dashboardService.Dashboard(c.Request.Context(), actorID(c), recent)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
