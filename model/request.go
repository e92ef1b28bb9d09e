// api/model/request.go
package model

import "time"

// AccessRequest is one evaluation unit. It is constructed by the caller and
// mutated in place as it moves through risk scoring, trust scoring and
// policy evaluation; afterwards it carries the decision fields.
type AccessRequest struct {
	ID             string            `json:"id,omitempty"`
	IdentityID     string            `json:"identity_id"`
	DeviceID       string            `json:"device_id,omitempty"`
	Resource       string            `json:"resource"`
	Action         string            `json:"action"`
	SourceIP       string            `json:"source_ip"`
	UserAgent      string            `json:"user_agent,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
	Context        map[string]string `json:"context,omitempty"`
	AuthMethod     AuthMethod        `json:"auth_method,omitempty"`
	SessionID      string            `json:"session_id,omitempty"`
	Location       string            `json:"location,omitempty"`

	// Populated during evaluation.
	RiskFactors                    []string      `json:"risk_factors,omitempty"`
	CalculatedRisk                 int           `json:"calculated_risk"`
	TrustScore                     float64       `json:"trust_score"`
	Decision                       PolicyAction  `json:"decision,omitempty"`
	DecisionReason                 string        `json:"decision_reason,omitempty"`
	PolicyMatched                  string        `json:"policy_matched,omitempty"`
	DecisionTime                   *time.Time    `json:"decision_time,omitempty"`
	DecisionLatency                time.Duration `json:"decision_latency,omitempty"`
	AdditionalVerificationRequired bool          `json:"additional_verification_required"`
	SessionControls                *SessionControls `json:"session_controls,omitempty"`
}

// SecurityEvent is an audit record emitted when risk is high or access is
// denied. Events are append-only and held in a bounded buffer until drained
// by the SIEM forwarder.
type SecurityEvent struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Severity    EventSeverity `json:"severity"`
	IdentityID  string        `json:"identity_id,omitempty"`
	DeviceID    string        `json:"device_id,omitempty"`
	Resource    string        `json:"resource,omitempty"`
	Description string        `json:"description"`
	Indicators  []string      `json:"indicators,omitempty"`
	RiskScore   int           `json:"risk_score"`
	Timestamp   time.Time     `json:"timestamp"`
	Resolved    bool          `json:"resolved"`
}

// Session is the continuous-authentication state for one session ID.
type Session struct {
	ID                   string        `json:"id"`
	IdentityID           string        `json:"identity_id"`
	DeviceID             string        `json:"device_id,omitempty"`
	Location             string        `json:"location,omitempty"`
	StartedAt            time.Time     `json:"started_at"`
	LastActivity         time.Time     `json:"last_activity"`
	Status               SessionStatus `json:"status"`
	MonitoringLevel      string        `json:"monitoring_level,omitempty"`
	ContinuousTrustScore float64       `json:"continuous_trust_score"`
}
