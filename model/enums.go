// api/model/enums.go
package model

// TrustLevel is the ordinal trust classification for identities, devices
// and network segments.
type TrustLevel string

const (
	TrustUntrusted TrustLevel = "untrusted"
	TrustLow       TrustLevel = "low"
	TrustMedium    TrustLevel = "medium"
	TrustHigh      TrustLevel = "high"
	TrustVerified  TrustLevel = "verified"
)

// Rank returns the ordinal position of the trust level. Unknown values rank
// below untrusted so a bad input never reads as trusted.
func (t TrustLevel) Rank() int {
	switch t {
	case TrustUntrusted:
		return 0
	case TrustLow:
		return 1
	case TrustMedium:
		return 2
	case TrustHigh:
		return 3
	case TrustVerified:
		return 4
	default:
		return -1
	}
}

// Score maps the trust level onto the [0,1] scale used by the trust
// evaluator.
func (t TrustLevel) Score() float64 {
	switch t {
	case TrustUntrusted:
		return 0.0
	case TrustLow:
		return 0.25
	case TrustMedium:
		return 0.5
	case TrustHigh:
		return 0.75
	case TrustVerified:
		return 1.0
	default:
		return 0.0
	}
}

// AtLeast reports whether t is at or above the given minimum level.
func (t TrustLevel) AtLeast(min TrustLevel) bool {
	return t.Rank() >= min.Rank()
}

func (t TrustLevel) Valid() bool {
	return t.Rank() >= 0
}

// AuthMethod is an authentication mechanism an identity can present.
type AuthMethod string

const (
	AuthPassword      AuthMethod = "password"
	AuthMFA           AuthMethod = "mfa"
	AuthBiometric     AuthMethod = "biometric"
	AuthCertificate   AuthMethod = "certificate"
	AuthHardwareToken AuthMethod = "hardware_token"
)

// Strength maps the method onto the [0,1] scale used by the trust evaluator.
func (a AuthMethod) Strength() float64 {
	switch a {
	case AuthPassword:
		return 0.3
	case AuthMFA:
		return 0.8
	case AuthBiometric:
		return 0.9
	case AuthCertificate:
		return 0.95
	case AuthHardwareToken:
		return 1.0
	default:
		return 0.0
	}
}

func (a AuthMethod) Valid() bool {
	switch a {
	case AuthPassword, AuthMFA, AuthBiometric, AuthCertificate, AuthHardwareToken:
		return true
	default:
		return false
	}
}

// PolicyAction is the enforcement outcome a matched policy prescribes.
type PolicyAction string

const (
	ActionAllow      PolicyAction = "allow"
	ActionDeny       PolicyAction = "deny"
	ActionChallenge  PolicyAction = "challenge"
	ActionMonitor    PolicyAction = "monitor"
	ActionRedirect   PolicyAction = "redirect"
	ActionQuarantine PolicyAction = "quarantine"
)

func (a PolicyAction) Valid() bool {
	switch a {
	case ActionAllow, ActionDeny, ActionChallenge, ActionMonitor, ActionRedirect, ActionQuarantine:
		return true
	default:
		return false
	}
}

// IdentityType classifies the principal behind an identity record.
type IdentityType string

const (
	IdentityUser        IdentityType = "user"
	IdentityService     IdentityType = "service"
	IdentityDevice      IdentityType = "device"
	IdentityApplication IdentityType = "application"
)

// ComplianceStatus is a device's posture verdict. Unknown must be treated as
// a penalty by every consumer, never as compliant.
type ComplianceStatus string

const (
	ComplianceCompliant    ComplianceStatus = "compliant"
	ComplianceNonCompliant ComplianceStatus = "non_compliant"
	ComplianceUnknown      ComplianceStatus = "unknown"
)

// ZoneType classifies a network segment.
type ZoneType string

const (
	ZoneDMZ        ZoneType = "dmz"
	ZoneInternal   ZoneType = "internal"
	ZoneRestricted ZoneType = "restricted"
	ZoneQuarantine ZoneType = "quarantine"
)

// EventSeverity grades a security event.
type EventSeverity string

const (
	SeverityLow      EventSeverity = "low"
	SeverityMedium   EventSeverity = "medium"
	SeverityHigh     EventSeverity = "high"
	SeverityCritical EventSeverity = "critical"
)

// SessionStatus is the lifecycle state of a continuous-auth session.
type SessionStatus string

const (
	SessionActive         SessionStatus = "active"
	SessionMonitoring     SessionStatus = "monitoring"
	SessionReauthRequired SessionStatus = "reauth_required"
	SessionTerminated     SessionStatus = "terminated"
)
