// api/service/access_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/zt-labs/aegis/api/engine"
	zt_errors "github.com/zt-labs/aegis/api/errors"
	logger "github.com/zt-labs/aegis/api/logging"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/util"
)

// IAccessService is the evaluation surface exposed to the HTTP layer.
type IAccessService interface {
	EvaluateAccess(ctx context.Context, request *model.AccessRequest) (*model.AccessRequest, error)
	StartSession(ctx context.Context, session *model.Session) error
	ContinuousAuth(ctx context.Context, sessionID string) (*engine.ContinuousAuthResult, error)
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	SegmentationCheck(ctx context.Context, srcIP, dstIP string, port int, protocol string) *engine.SegmentationResult
	AdaptiveAuth(ctx context.Context, identityID string, authCtx map[string]string) (*engine.AdaptiveAuthResult, error)
	RecordAuthentication(ctx context.Context, identityID string, method model.AuthMethod, success bool, sourceIP string) error
	RecentRequests(n int) []*model.AccessRequest
	RecentEvents(n int) []*model.SecurityEvent
	ResolveEvent(eventID string) error
}

// AccessService fronts the zero-trust engine with request validation,
// decision caching and event-bus notifications.
type AccessService struct {
	engine          *engine.ZeroTrustEngine
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

func NewAccessService(
	ztEngine *engine.ZeroTrustEngine,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *AccessService {
	service := &AccessService{
		engine:          ztEngine,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe(engine.EventTopic, service.handleSecurityEvent)

	return service
}

// handleSecurityEvent pushes high and critical events to the notification
// channel; the SIEM forwarder handles the rest independently.
func (s *AccessService) handleSecurityEvent(ctx context.Context, event util.Event) error {
	secEvent, ok := event.Payload.(model.SecurityEvent)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return nil
	}
	if secEvent.Severity == model.SeverityHigh || secEvent.Severity == model.SeverityCritical {
		return s.notificationSvc.NotifyCriticalEvent(ctx, secEvent)
	}
	return nil
}

// EvaluateAccess validates and evaluates one access request. The evaluated
// request is cached so the gateway can serve identical repeat lookups
// cheaply; cache failures are logged and never block a decision.
func (s *AccessService) EvaluateAccess(ctx context.Context, request *model.AccessRequest) (*model.AccessRequest, error) {
	if err := s.validationUtil.ValidateAccessRequest(*request); err != nil {
		return nil, zt_errors.ErrInvalidRequestData
	}

	// Repeat lookups for the same identity/resource/action can ride the
	// short-lived cached decision. Anything carrying per-request signals
	// (session, device, explicit timestamp) is always evaluated fresh.
	if request.SessionID == "" && request.DeviceID == "" && request.Timestamp.IsZero() {
		cached, err := s.cacheService.GetDecision(ctx, request.IdentityID, request.Resource, request.Action)
		if err != nil {
			logger.Warn("Failed to read cached decision", zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	evaluated := s.engine.EvaluateAccessRequest(ctx, request)

	if err := s.cacheService.SetDecision(ctx, evaluated); err != nil {
		logger.Warn("Failed to cache decision", zap.Error(err), zap.String("requestID", evaluated.ID))
	}

	return evaluated, nil
}

func (s *AccessService) StartSession(ctx context.Context, session *model.Session) error {
	if session.ID == "" || session.IdentityID == "" {
		return zt_errors.ErrInvalidRequestData
	}
	s.engine.Sessions().StartSession(session)
	if err := s.cacheService.SaveSession(ctx, session); err != nil {
		logger.Warn("Failed to snapshot session", zap.Error(err), zap.String("sessionID", session.ID))
	}
	return nil
}

func (s *AccessService) ContinuousAuth(ctx context.Context, sessionID string) (*engine.ContinuousAuthResult, error) {
	result, err := s.engine.ContinuousAuthentication(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session, ok := s.engine.Sessions().Session(sessionID)
	if ok {
		if result.Action == "terminate_session" {
			if err := s.notificationSvc.NotifySessionTerminated(ctx, session); err != nil {
				logger.Warn("Failed to notify session termination", zap.Error(err))
			}
			if err := s.cacheService.DeleteSession(ctx, sessionID); err != nil {
				logger.Warn("Failed to drop session snapshot", zap.Error(err))
			}
		} else if err := s.cacheService.SaveSession(ctx, &session); err != nil {
			logger.Warn("Failed to snapshot session", zap.Error(err), zap.String("sessionID", sessionID))
		}
	}

	return result, nil
}

func (s *AccessService) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if session, ok := s.engine.Sessions().Session(sessionID); ok {
		return &session, nil
	}
	// Fall back to the snapshot store after a restart.
	session, err := s.cacheService.GetSession(ctx, sessionID)
	if err != nil {
		logger.Warn("Failed to read session snapshot", zap.Error(err), zap.String("sessionID", sessionID))
	}
	if session == nil {
		return nil, zt_errors.ErrSessionNotFound
	}
	s.engine.Sessions().StartSession(session)
	return session, nil
}

func (s *AccessService) SegmentationCheck(ctx context.Context, srcIP, dstIP string, port int, protocol string) *engine.SegmentationResult {
	return s.engine.MicroSegmentationCheck(ctx, srcIP, dstIP, port, protocol)
}

func (s *AccessService) AdaptiveAuth(ctx context.Context, identityID string, authCtx map[string]string) (*engine.AdaptiveAuthResult, error) {
	return s.engine.AdaptiveAuthentication(identityID, authCtx)
}

func (s *AccessService) RecordAuthentication(ctx context.Context, identityID string, method model.AuthMethod, success bool, sourceIP string) error {
	if err := s.engine.RecordAuthentication(identityID, method, success, sourceIP); err != nil {
		return err
	}
	// Auth outcomes change evaluation inputs; stale decisions must not serve.
	if err := s.cacheService.InvalidateIdentity(ctx, identityID); err != nil {
		logger.Warn("Failed to invalidate cached decisions", zap.Error(err), zap.String("identityID", identityID))
	}
	return nil
}

func (s *AccessService) RecentRequests(n int) []*model.AccessRequest {
	return s.engine.RecentRequests(n)
}

func (s *AccessService) RecentEvents(n int) []*model.SecurityEvent {
	return s.engine.RecentEvents(n)
}

func (s *AccessService) ResolveEvent(eventID string) error {
	return s.engine.ResolveEvent(eventID)
}
