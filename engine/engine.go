// api/engine/engine.go
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	zt_errors "github.com/zt-labs/aegis/api/errors"
	logger "github.com/zt-labs/aegis/api/logging"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
	"github.com/zt-labs/aegis/api/util"
)

// EventTopic is the event-bus topic security events are published on.
const EventTopic = "security.event"

// ZeroTrustEngine orchestrates risk scoring, trust scoring and policy
// evaluation for every access request, keeps bounded request and event
// history, and exposes continuous-authentication, micro-segmentation and
// adaptive-authentication checks.
type ZeroTrustEngine struct {
	directory *store.DirectoryStore
	risk      *RiskCalculator
	trust     *TrustEvaluator
	policies  *PolicyEngine
	sessions  *SessionManager
	eventBus  *util.EventBus

	historyMu      sync.Mutex
	requestHistory []*model.AccessRequest
	historySize    int

	eventsMu    sync.Mutex
	events      []*model.SecurityEvent
	eventBuffer int
}

func NewZeroTrustEngine(directory *store.DirectoryStore, eventBus *util.EventBus) *ZeroTrustEngine {
	return &ZeroTrustEngine{
		directory:   directory,
		risk:        NewRiskCalculator(DefaultRiskWeights()),
		trust:       NewTrustEvaluator(),
		policies:    NewPolicyEngine(),
		sessions:    NewSessionManager(),
		eventBus:    eventBus,
		historySize: intSetting("engine.requestHistorySize", 10000),
		eventBuffer: intSetting("engine.eventBufferSize", 5000),
	}
}

// Directory exposes the engine's directory store for registration surfaces.
func (e *ZeroTrustEngine) Directory() *store.DirectoryStore {
	return e.directory
}

// Sessions exposes the engine's session manager.
func (e *ZeroTrustEngine) Sessions() *SessionManager {
	return e.sessions
}

// EvaluateAccessRequest runs the full pipeline: risk, trust, policy match,
// policy evaluation, decision recording and event emission. The request is
// mutated in place and returned; a decision is always set and defaults to
// deny when no policy matches.
func (e *ZeroTrustEngine) EvaluateAccessRequest(ctx context.Context, request *model.AccessRequest) *model.AccessRequest {
	started := time.Now()
	if request.Timestamp.IsZero() {
		request.Timestamp = started
	}
	if request.ID == "" {
		request.ID = uuid.New().String()
	}

	e.risk.CalculateRisk(request, e.directory)
	e.trust.CalculateTrust(request, e.directory)

	matched := e.policies.FindMatchingPolicies(request, e.directory.Policies())
	if len(matched) == 0 {
		request.Decision = model.ActionDeny
		request.DecisionReason = "no_matching_policy"
		e.finishDecision(request, started)
		e.emitEvent(ctx, &model.SecurityEvent{
			Type:        "policy_no_match",
			Severity:    model.SeverityMedium,
			IdentityID:  request.IdentityID,
			DeviceID:    request.DeviceID,
			Resource:    request.Resource,
			Description: "no policy matched the access request; denied by default",
			Indicators:  request.RiskFactors,
			RiskScore:   request.CalculatedRisk,
		})
		e.appendHistory(request)
		return request
	}

	// Lowest priority number governs; FindMatchingPolicies already sorted
	// with the lexical-ID tie-break.
	governing := matched[0]
	action, reason := e.policies.EvaluatePolicy(governing, request, e.directory)
	request.Decision = action
	request.DecisionReason = reason
	request.PolicyMatched = governing.ID
	if action == model.ActionAllow || action == model.ActionMonitor {
		controls := governing.SessionControls
		request.SessionControls = &controls
	}
	e.finishDecision(request, started)
	e.directory.RecordPolicyMatch(governing.ID, *request.DecisionTime)

	if action == model.ActionChallenge {
		request.AdditionalVerificationRequired = true
	}

	if action == model.ActionDeny {
		e.emitEvent(ctx, &model.SecurityEvent{
			Type:        "access_denied",
			Severity:    model.SeverityHigh,
			IdentityID:  request.IdentityID,
			DeviceID:    request.DeviceID,
			Resource:    request.Resource,
			Description: "access denied by policy " + governing.ID + ": " + reason,
			Indicators:  request.RiskFactors,
			RiskScore:   request.CalculatedRisk,
		})
	}
	if request.CalculatedRisk > intSetting("engine.highRiskThreshold", 75) {
		e.emitEvent(ctx, &model.SecurityEvent{
			Type:        "high_risk_access",
			Severity:    model.SeverityMedium,
			IdentityID:  request.IdentityID,
			DeviceID:    request.DeviceID,
			Resource:    request.Resource,
			Description: "high risk score on access request",
			Indicators:  request.RiskFactors,
			RiskScore:   request.CalculatedRisk,
		})
	}

	e.appendHistory(request)

	logger.Info("Access request evaluated",
		zap.String("requestID", request.ID),
		zap.String("identityID", request.IdentityID),
		zap.String("resource", request.Resource),
		zap.String("decision", string(request.Decision)),
		zap.String("policyID", request.PolicyMatched),
		zap.Int("risk", request.CalculatedRisk),
		zap.Float64("trust", request.TrustScore))

	return request
}

func (e *ZeroTrustEngine) finishDecision(request *model.AccessRequest, started time.Time) {
	now := time.Now()
	request.DecisionTime = &now
	request.DecisionLatency = now.Sub(started)
}

// ContinuousAuthentication re-evaluates a session's trust. Termination and
// re-auth transitions are audited.
func (e *ZeroTrustEngine) ContinuousAuthentication(ctx context.Context, sessionID string) (*ContinuousAuthResult, error) {
	result, err := e.sessions.ContinuousAuthentication(sessionID, e.directory)
	if err != nil {
		return nil, err
	}
	if result.Action == "terminate_session" || result.Action == "require_reauth" {
		session, _ := e.sessions.Session(sessionID)
		e.emitEvent(ctx, &model.SecurityEvent{
			Type:        "session_" + result.Action,
			Severity:    model.SeverityHigh,
			IdentityID:  session.IdentityID,
			DeviceID:    session.DeviceID,
			Description: "continuous authentication dropped session trust below threshold",
			RiskScore:   100 - int(result.ContinuousTrustScore),
		})
	}
	return result, nil
}

// MicroSegmentationCheck evaluates segment-to-segment reachability. Denials
// are audited.
func (e *ZeroTrustEngine) MicroSegmentationCheck(ctx context.Context, srcIP, dstIP string, port int, protocol string) *SegmentationResult {
	result := MicroSegmentationCheck(e.directory, srcIP, dstIP, port, protocol)
	if !result.Allowed {
		e.emitEvent(ctx, &model.SecurityEvent{
			Type:        "segmentation_violation",
			Severity:    model.SeverityMedium,
			Description: "cross-segment traffic denied: " + result.Reason,
			Indicators:  []string{srcIP, dstIP},
		})
	}
	return result
}

// AdaptiveAuthentication derives step-up requirements for an identity.
func (e *ZeroTrustEngine) AdaptiveAuthentication(identityID string, authCtx map[string]string) (*AdaptiveAuthResult, error) {
	return AdaptiveAuthentication(e.directory, identityID, authCtx)
}

// RecordAuthentication appends an authentication outcome to the identity's
// history and updates its last-authenticated timestamp.
func (e *ZeroTrustEngine) RecordAuthentication(identityID string, method model.AuthMethod, success bool, sourceIP string) error {
	now := time.Now()
	ok := e.directory.UpdateIdentity(identityID, func(identity *model.Identity) {
		identity.AuthHistory = append(identity.AuthHistory, model.AuthEvent{
			Timestamp: now,
			Method:    method,
			Success:   success,
			SourceIP:  sourceIP,
		})
		if success {
			identity.LastAuthenticated = &now
		}
		identity.UpdatedAt = now
	})
	if !ok {
		return zt_errors.ErrIdentityNotFound
	}
	return nil
}

func (e *ZeroTrustEngine) emitEvent(ctx context.Context, event *model.SecurityEvent) {
	event.ID = uuid.New().String()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	e.eventsMu.Lock()
	e.events = append(e.events, event)
	if len(e.events) > e.eventBuffer {
		e.events = e.events[len(e.events)-e.eventBuffer:]
	}
	e.eventsMu.Unlock()

	if e.eventBus != nil {
		e.eventBus.Publish(ctx, EventTopic, *event)
	}

	logger.Warn("Security event emitted",
		zap.String("eventID", event.ID),
		zap.String("type", event.Type),
		zap.String("severity", string(event.Severity)),
		zap.String("identityID", event.IdentityID),
		zap.Int("risk", event.RiskScore))
}

func (e *ZeroTrustEngine) appendHistory(request *model.AccessRequest) {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	e.requestHistory = append(e.requestHistory, request)
	if len(e.requestHistory) > e.historySize {
		e.requestHistory = e.requestHistory[len(e.requestHistory)-e.historySize:]
	}
}

// RecentRequests returns up to n most recent evaluated requests, newest last.
func (e *ZeroTrustEngine) RecentRequests(n int) []*model.AccessRequest {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	if n <= 0 || n > len(e.requestHistory) {
		n = len(e.requestHistory)
	}
	out := make([]*model.AccessRequest, n)
	copy(out, e.requestHistory[len(e.requestHistory)-n:])
	return out
}

// RecentEvents returns up to n most recent security events, newest last.
func (e *ZeroTrustEngine) RecentEvents(n int) []*model.SecurityEvent {
	e.eventsMu.Lock()
	defer e.eventsMu.Unlock()
	if n <= 0 || n > len(e.events) {
		n = len(e.events)
	}
	out := make([]*model.SecurityEvent, n)
	copy(out, e.events[len(e.events)-n:])
	return out
}

// ResolveEvent marks a buffered event as resolved.
func (e *ZeroTrustEngine) ResolveEvent(eventID string) error {
	e.eventsMu.Lock()
	defer e.eventsMu.Unlock()
	for _, event := range e.events {
		if event.ID == eventID {
			event.Resolved = true
			return nil
		}
	}
	return zt_errors.ErrEventNotFound
}
