package handler

import (
	"errors"
	"net/http"

	"removal-backend/internal/middleware"
	"removal-backend/internal/model"
	"removal-backend/internal/service"
	"removal-backend/internal/workflow"
	"removal-backend/pkg/pagination"
	"removal-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RemovalHandler struct {
	removalService   service.RemovalService
	dashboardService service.DashboardService
}

func NewRemovalHandler(removalService service.RemovalService, dashboardService service.DashboardService) *RemovalHandler {
	return &RemovalHandler{removalService: removalService, dashboardService: dashboardService}
}

func (h *RemovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	requests.Use(middleware.RequireAuth())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", middleware.RequireRole(model.RoleAdmin), h.ListRequests)
		requests.GET("/mine", h.MyRequests)
		requests.GET("/pending", h.PendingRequests)
		requests.GET("/:id", h.GetRequest)
		requests.GET("/:id/flow", h.GetFlow)
		requests.PUT("/:id/approve", h.ApproveRequest)
		requests.PUT("/:id/reject", h.RejectRequest)
		requests.POST("/:id/images", h.AddImage)
		requests.DELETE("/:id/images/:imageId", h.RemoveImage)
	}
}

// statusForError maps service/workflow errors to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, service.ErrRequestFinalized):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrMissingSignature),
		errors.Is(err, workflow.ErrMissingRejectionReason):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrStateCorrupted):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func actorID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	id, _ := userID.(string)
	return id
}

// CreateRequest submits a new removal request
// @Summary      Create removal request
// @Description  Creates a removal request on behalf of the authenticated actor; it enters the flow at PENDING_HOD
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRemovalRequestDTO  true  "Removal Request"
// @Success      201      {object}  response.Response{data=service.RemovalRequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/requests [post]
func (h *RemovalHandler) CreateRequest(c *gin.Context) {
	var req service.CreateRemovalRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.removalService.CreateRequest(c.Request.Context(), actorID(c), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListRequests lists all removal requests (admin only)
// @Summary      List removal requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response
// @Router       /api/requests [get]
func (h *RemovalHandler) ListRequests(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.RemovalFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	requests, total, err := h.removalService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// MyRequests returns the actor's requests bucketed by outcome
// @Summary      My removal requests
// @Description  Returns the authenticated actor's requests partitioned into pending/approved/rejected buckets
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.RequestBuckets}
// @Router       /api/requests/mine [get]
func (h *RemovalHandler) MyRequests(c *gin.Context) {
	buckets, err := h.dashboardService.MyRequests(c.Request.Context(), actorID(c))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, buckets))
}

// PendingRequests returns requests awaiting the actor's decision
// @Summary      Pending approvals for actor
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RemovalRequestResponse}
// @Router       /api/requests/pending [get]
func (h *RemovalHandler) PendingRequests(c *gin.Context) {
	requests, err := h.dashboardService.PendingForActor(c.Request.Context(), actorID(c))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// GetRequest returns one removal request by id
// @Summary      Get removal request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RemovalRequestResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id} [get]
func (h *RemovalHandler) GetRequest(c *gin.Context) {
	result, err := h.removalService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetFlow returns the canonical per-stage state of a request's approval flow
// @Summary      Get approval flow
// @Description  Canonical approved/rejected/current/waiting state of each gate; clients must not re-derive this
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=[]workflow.StageState}
// @Router       /api/requests/{id}/flow [get]
func (h *RemovalHandler) GetFlow(c *gin.Context) {
	flow, err := h.removalService.GetFlow(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, flow))
}

// ApproveRequest approves the request at its current stage
// @Summary      Approve request
// @Description  Appends an approval for the active gate and advances the status; requires a signature payload
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Request ID"
// @Param        payload  body      service.DecisionDTO  true  "Signature payload"
// @Success      200      {object}  response.Response{data=service.RemovalRequestResponse}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/requests/{id}/approve [put]
func (h *RemovalHandler) ApproveRequest(c *gin.Context) {
	var decision service.DecisionDTO
	if err := c.ShouldBindJSON(&decision); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.removalService.Decide(c.Request.Context(), c.Param("id"), actorID(c), true, decision)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "The removal request has been approved successfully.", result))
}

// RejectRequest rejects the request at its current stage
// @Summary      Reject request
// @Description  Appends a rejection for the active gate and finalizes the request as REJECTED; requires a reason
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Request ID"
// @Param        payload  body      service.DecisionDTO  true  "Rejection reason"
// @Success      200      {object}  response.Response{data=service.RemovalRequestResponse}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/requests/{id}/reject [put]
func (h *RemovalHandler) RejectRequest(c *gin.Context) {
	var decision service.DecisionDTO
	if err := c.ShouldBindJSON(&decision); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.removalService.Decide(c.Request.Context(), c.Param("id"), actorID(c), false, decision)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "The removal request has been rejected successfully.", result))
}

// AddImage attaches an image reference to a request
// @Summary      Add request image
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Request ID"
// @Param        payload  body      service.AddImageDTO  true  "Image URL or data blob reference"
// @Success      200      {object}  response.Response{data=service.RemovalRequestResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/images [post]
func (h *RemovalHandler) AddImage(c *gin.Context) {
	var req service.AddImageDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.removalService.AddImage(c.Request.Context(), c.Param("id"), actorID(c), req.URL)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// RemoveImage detaches an image from a request
// @Summary      Remove request image
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Request ID"
// @Param        imageId  path      string  true  "Image ID"
// @Success      200      {object}  response.Response{data=service.RemovalRequestResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/images/{imageId} [delete]
func (h *RemovalHandler) RemoveImage(c *gin.Context) {
	result, err := h.removalService.RemoveImage(c.Request.Context(), c.Param("id"), actorID(c), c.Param("imageId"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
