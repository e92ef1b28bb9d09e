// api/controller/access_controller_test.go
package controller_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zt-labs/aegis/api/controller"
	"github.com/zt-labs/aegis/api/engine"
	zt_errors "github.com/zt-labs/aegis/api/errors"
	logger "github.com/zt-labs/aegis/api/logging"
	"github.com/zt-labs/aegis/api/model"
	zt_mock "github.com/zt-labs/aegis/api/test/mock"
)

func setupAccessRouter(accessService *zt_mock.MockAccessService, auditService *zt_mock.MockAuditService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	accessController := controller.NewAccessController(accessService, auditService)
	accessController.RegisterRoutes(router.Group("/"))
	return router
}

func TestAccessController(t *testing.T) {
	logger.InitLogger(t.TempDir())
	defer logger.Sync()

	t.Run("EvaluateAccess_Success", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		evaluated := &model.AccessRequest{
			ID:         "req-1",
			IdentityID: "user-1",
			Resource:   "/app/dashboard",
			Decision:   model.ActionAllow,
		}
		accessService.On("EvaluateAccess", mock.Anything, mock.Anything).Return(evaluated, nil)

		body := strings.NewReader(`{"identity_id":"user-1","resource":"/app/dashboard","action":"read","source_ip":"10.0.0.5"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access/evaluate", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"decision":"allow"`)
		accessService.AssertExpectations(t)
	})

	t.Run("EvaluateAccess_InvalidBody", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access/evaluate", strings.NewReader(`not-json`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("EvaluateAccess_ValidationFailure", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		accessService.On("EvaluateAccess", mock.Anything, mock.Anything).Return(nil, zt_errors.ErrInvalidRequestData)

		body := strings.NewReader(`{"identity_id":""}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access/evaluate", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("AdaptiveAuth_IdentityNotFound", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		accessService.On("AdaptiveAuth", mock.Anything, "ghost", mock.Anything).Return(nil, zt_errors.ErrIdentityNotFound)

		body := strings.NewReader(`{"identity_id":"ghost","context":{"location":"hq"}}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access/adaptive", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("AdaptiveAuth_Success", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		result := &engine.AdaptiveAuthResult{
			IdentityID:      "user-1",
			RequiredMethods: []model.AuthMethod{model.AuthPassword, model.AuthMFA},
		}
		accessService.On("AdaptiveAuth", mock.Anything, "user-1", mock.Anything).Return(result, nil)

		body := strings.NewReader(`{"identity_id":"user-1","context":{"location":"somewhere_else"}}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access/adaptive", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"mfa"`)
	})

	t.Run("RecordAuthentication_Success", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		accessService.On("RecordAuthentication", mock.Anything, "user-1", model.AuthMFA, true, "10.0.0.5").Return(nil)

		body := strings.NewReader(`{"identity_id":"user-1","method":"mfa","success":true,"source_ip":"10.0.0.5"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access/authentications", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		accessService.AssertExpectations(t)
	})

	t.Run("SegmentationCheck_Success", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		result := &engine.SegmentationResult{Allowed: true, Reason: "traffic_permitted"}
		accessService.On("SegmentationCheck", mock.Anything, "10.0.10.100", "10.0.100.50", 443, "tcp").Return(result)

		body := strings.NewReader(`{"source_ip":"10.0.10.100","destination_ip":"10.0.100.50","port":443,"protocol":"tcp"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/segmentation/check", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"allowed":true`)
	})

	t.Run("RecentEvents_Success", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		events := []*model.SecurityEvent{{ID: "event-1", Type: "access_denied", Severity: model.SeverityHigh}}
		accessService.On("RecentEvents", 10).Return(events)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/events", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access_denied")
	})

	t.Run("EventHistory_Success", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		events := []model.SecurityEvent{{ID: "event-1", Type: "high_risk_access"}}
		auditService.On("QueryEvents", mock.Anything, mock.Anything, mock.Anything, "user-1", "").Return(events, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/events/history?identity_id=user-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "high_risk_access")
		auditService.AssertExpectations(t)
	})

	t.Run("EventHistory_BadTimestamp", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/events/history?from=yesterday", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ResolveEvent_NotFound", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		auditService := new(zt_mock.MockAuditService)
		router := setupAccessRouter(accessService, auditService)

		accessService.On("ResolveEvent", "missing").Return(zt_errors.ErrEventNotFound)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/events/missing/resolve", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSessionController(t *testing.T) {
	logger.InitLogger(t.TempDir())
	defer logger.Sync()

	setup := func(accessService *zt_mock.MockAccessService) *gin.Engine {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		sessionController := controller.NewSessionController(accessService)
		sessionController.RegisterRoutes(router.Group("/"))
		return router
	}

	t.Run("StartSession_Success", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		router := setup(accessService)

		accessService.On("StartSession", mock.Anything, mock.Anything).Return(nil)

		body := strings.NewReader(`{"id":"session-1","identity_id":"user-1"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/sessions", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("GetSession_NotFound", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		router := setup(accessService)

		accessService.On("GetSession", mock.Anything, "missing").Return(nil, zt_errors.ErrSessionNotFound)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/sessions/missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ContinuousAuth_Success", func(t *testing.T) {
		accessService := new(zt_mock.MockAccessService)
		router := setup(accessService)

		result := &engine.ContinuousAuthResult{
			SessionID:            "session-1",
			ContinuousTrustScore: 45,
			Action:               "require_reauth",
			SessionStatus:        model.SessionReauthRequired,
		}
		accessService.On("ContinuousAuth", mock.Anything, "session-1").Return(result, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/sessions/session-1/continuous-auth", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "require_reauth")
	})
}
