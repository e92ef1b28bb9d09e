// api/controller/access_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zt-labs/aegis/api/audit"
	zt_errors "github.com/zt-labs/aegis/api/errors"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/service"
	"github.com/zt-labs/aegis/api/util"
	helper_util "github.com/zt-labs/aegis/api/util/helper"
)

type AccessController struct {
	accessService service.IAccessService
	auditService  audit.Service
}

func NewAccessController(accessService service.IAccessService, auditService audit.Service) *AccessController {
	return &AccessController{
		accessService: accessService,
		auditService:  auditService,
	}
}

// RegisterRoutes registers the evaluation API routes
func (ac *AccessController) RegisterRoutes(r *gin.RouterGroup) {
	access := r.Group("/access")
	{
		access.POST("/evaluate", ac.EvaluateAccess)
		access.POST("/adaptive", ac.AdaptiveAuth)
		access.POST("/authentications", ac.RecordAuthentication)
		access.GET("/requests", ac.RecentRequests)
	}
	r.POST("/segmentation/check", ac.SegmentationCheck)
	events := r.Group("/events")
	{
		events.GET("", ac.RecentEvents)
		events.GET("/history", ac.EventHistory)
		events.POST("/:id/resolve", ac.ResolveEvent)
	}
}

// EvaluateAccess endpoint: the gateway's per-request decision call.
func (ac *AccessController) EvaluateAccess(c *gin.Context) {
	var request model.AccessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", zt_errors.ErrInvalidRequestData)
		return
	}

	evaluated, err := ac.accessService.EvaluateAccess(c, &request)
	if err != nil {
		switch err {
		case zt_errors.ErrInvalidRequestData:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate access request", zt_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, evaluated)
}

type adaptiveAuthRequest struct {
	IdentityID string            `json:"identity_id" binding:"required"`
	Context    map[string]string `json:"context"`
}

// AdaptiveAuth endpoint: derives step-up requirements for a login attempt.
func (ac *AccessController) AdaptiveAuth(c *gin.Context) {
	var body adaptiveAuthRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid adaptive auth request", zt_errors.ErrInvalidRequestData)
		return
	}

	result, err := ac.accessService.AdaptiveAuth(c, body.IdentityID, body.Context)
	if err != nil {
		if err == zt_errors.ErrIdentityNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Identity not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to derive authentication requirements", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

type recordAuthRequest struct {
	IdentityID string           `json:"identity_id" binding:"required"`
	Method     model.AuthMethod `json:"method" binding:"required"`
	Success    bool             `json:"success"`
	SourceIP   string           `json:"source_ip"`
}

// RecordAuthentication endpoint: the IdP reports authentication outcomes.
func (ac *AccessController) RecordAuthentication(c *gin.Context) {
	var body recordAuthRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid authentication record", zt_errors.ErrInvalidRequestData)
		return
	}

	if err := ac.accessService.RecordAuthentication(c, body.IdentityID, body.Method, body.Success, body.SourceIP); err != nil {
		if err == zt_errors.ErrIdentityNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Identity not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to record authentication", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

type segmentationCheckRequest struct {
	SourceIP      string `json:"source_ip" binding:"required"`
	DestinationIP string `json:"destination_ip" binding:"required"`
	Port          int    `json:"port" binding:"required"`
	Protocol      string `json:"protocol" binding:"required"`
}

// SegmentationCheck endpoint: segment-to-segment reachability decision.
func (ac *AccessController) SegmentationCheck(c *gin.Context) {
	var body segmentationCheckRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid segmentation check request", zt_errors.ErrInvalidRequestData)
		return
	}

	result := ac.accessService.SegmentationCheck(c, body.SourceIP, body.DestinationIP, body.Port, body.Protocol)
	c.JSON(http.StatusOK, result)
}

// RecentRequests endpoint: bounded evaluation history.
func (ac *AccessController) RecentRequests(c *gin.Context) {
	limit, _, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}
	c.JSON(http.StatusOK, ac.accessService.RecentRequests(limit))
}

// RecentEvents endpoint: undrained security events.
func (ac *AccessController) RecentEvents(c *gin.Context) {
	limit, _, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}
	c.JSON(http.StatusOK, ac.accessService.RecentEvents(limit))
}

// EventHistory endpoint: queries forwarded events from the SIEM backend.
func (ac *AccessController) EventHistory(c *gin.Context) {
	from, err := helper_util.ParseTime(c.DefaultQuery("from", time.Now().UTC().Add(-24*time.Hour).Format(time.RFC3339)))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid from timestamp", err)
		return
	}
	to, err := helper_util.ParseTime(c.DefaultQuery("to", time.Now().UTC().Format(time.RFC3339)))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid to timestamp", err)
		return
	}

	events, err := ac.auditService.QueryEvents(c, from, to, c.Query("identity_id"), c.Query("resource"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query event history", zt_errors.ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ResolveEvent endpoint: marks a buffered event as handled.
func (ac *AccessController) ResolveEvent(c *gin.Context) {
	eventID := c.Param("id")
	if err := ac.accessService.ResolveEvent(eventID); err != nil {
		if err == zt_errors.ErrEventNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Event not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve event", err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}
