// api/model/policy.go
package model

import (
	"time"
)

// AccessPolicy is a named rule matched against access requests. Among all
// enabled policies whose resource and identity patterns both match, the one
// with the lowest priority number governs the decision; equal priorities are
// broken by lexical policy ID.
type AccessPolicy struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Description          string             `json:"description,omitempty"`
	Priority             int                `json:"priority"` // lower number = higher precedence
	Enabled              bool               `json:"enabled"`
	Conditions           PolicyConditions   `json:"conditions"`
	Action               PolicyAction       `json:"action"`
	ResourcePatterns     []string           `json:"resource_patterns"`
	IdentityPatterns     []string           `json:"identity_patterns"`
	DeviceRequirements   DeviceRequirements `json:"device_requirements"`
	LocationRestrictions []string           `json:"location_restrictions,omitempty"`
	TimeRestrictions     TimeRestrictions   `json:"time_restrictions"`
	RiskThreshold        int                `json:"risk_threshold"`
	AuthRequirements     []AuthMethod       `json:"auth_requirements,omitempty"`
	SessionControls      SessionControls    `json:"session_controls"`
	MatchCount           int64              `json:"match_count"`
	LastMatched          *time.Time         `json:"last_matched,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// PolicyConditions are the identity-side conditions a policy imposes,
// combined as an AND-list of typed predicates.
type PolicyConditions struct {
	RequiredRoles []string   `json:"required_roles,omitempty"`
	TrustLevelMin TrustLevel `json:"trust_level_min,omitempty"`
	MFARequired   bool       `json:"mfa_required"`
}

// DeviceRequirements are the device posture conditions a policy imposes.
type DeviceRequirements struct {
	ComplianceStatus   ComplianceStatus `json:"compliance_status,omitempty"`
	EncryptionRequired bool             `json:"encryption_required"`
	ManagedRequired    bool             `json:"managed_required"`
}

// TimeRestrictions constrain when a policy permits access.
type TimeRestrictions struct {
	BusinessHoursOnly  bool          `json:"business_hours_only"`
	MaxSessionDuration time.Duration `json:"max_session_duration,omitempty"`
}

// SessionControls are the session parameters a policy hands to the caller on
// an allow decision.
type SessionControls struct {
	MaxDuration   time.Duration `json:"max_duration,omitempty"`
	IdleTimeout   time.Duration `json:"idle_timeout,omitempty"`
	RequireReauth bool          `json:"require_reauth"`
}

// AcceptsAuthMethod reports whether the request's auth method satisfies the
// policy's requirement list. An empty list accepts any method.
func (p *AccessPolicy) AcceptsAuthMethod(method AuthMethod) bool {
	if len(p.AuthRequirements) == 0 {
		return true
	}
	for _, m := range p.AuthRequirements {
		if m == method {
			return true
		}
	}
	return false
}
