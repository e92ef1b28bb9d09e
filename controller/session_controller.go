// api/controller/session_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	zt_errors "github.com/zt-labs/aegis/api/errors"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/service"
	"github.com/zt-labs/aegis/api/util"
)

type SessionController struct {
	accessService service.IAccessService
}

func NewSessionController(accessService service.IAccessService) *SessionController {
	return &SessionController{
		accessService: accessService,
	}
}

// RegisterRoutes registers the session API routes
func (sc *SessionController) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/sessions")
	{
		sessions.POST("", sc.StartSession)
		sessions.GET("/:id", sc.GetSession)
		sessions.POST("/:id/continuous-auth", sc.ContinuousAuth)
	}
}

// StartSession endpoint
func (sc *SessionController) StartSession(c *gin.Context) {
	var session model.Session
	if err := c.ShouldBindJSON(&session); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid session data", zt_errors.ErrInvalidRequestData)
		return
	}

	if err := sc.accessService.StartSession(c, &session); err != nil {
		if err == zt_errors.ErrInvalidRequestData {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid session data", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to start session", err)
		}
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession endpoint
func (sc *SessionController) GetSession(c *gin.Context) {
	session, err := sc.accessService.GetSession(c, c.Param("id"))
	if err != nil {
		if err == zt_errors.ErrSessionNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Session not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to get session", err)
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// ContinuousAuth endpoint: re-evaluates the session's trust.
func (sc *SessionController) ContinuousAuth(c *gin.Context) {
	result, err := sc.accessService.ContinuousAuth(c, c.Param("id"))
	if err != nil {
		if err == zt_errors.ErrSessionNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Session not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to run continuous authentication", err)
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
