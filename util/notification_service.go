// api/util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/zt-labs/aegis/api/logging"
	"github.com/zt-labs/aegis/api/model"
)

type NotificationService struct {
	// A messaging client would live here for out-of-band alerting.
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyCriticalEvent alerts operators about high and critical severity
// security events.
func (n *NotificationService) NotifyCriticalEvent(ctx context.Context, event model.SecurityEvent) error {
	logger.Warn("NOTIFICATION: security event",
		zap.String("eventID", event.ID),
		zap.String("type", event.Type),
		zap.String("severity", string(event.Severity)),
		zap.String("identityID", event.IdentityID),
		zap.String("resource", event.Resource))
	return nil
}

// NotifyPolicyChange informs operators when a policy is registered or
// replaced.
func (n *NotificationService) NotifyPolicyChange(ctx context.Context, changeType string, policy model.AccessPolicy) error {
	logger.Info("NOTIFICATION: policy "+changeType,
		zap.String("policyID", policy.ID),
		zap.String("policyName", policy.Name))
	return nil
}

// NotifySessionTerminated informs operators about a forced termination.
func (n *NotificationService) NotifySessionTerminated(ctx context.Context, session model.Session) error {
	logger.Warn("NOTIFICATION: session terminated",
		zap.String("sessionID", session.ID),
		zap.String("identityID", session.IdentityID),
		zap.Float64("continuousTrust", session.ContinuousTrustScore))
	return nil
}
