// api/model/identity.go
package model

import "time"

// Identity is a principal (user, service, device or application) known to the
// directory. Trust level and risk score are maintained independently and are
// both consulted on every evaluation; neither alone grants access.
type Identity struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Type              IdentityType      `json:"type"`
	TrustLevel        TrustLevel        `json:"trust_level"`
	AuthMethods       []AuthMethod      `json:"auth_methods"`
	Roles             []string          `json:"roles"`
	Groups            []string          `json:"groups,omitempty"`
	RiskScore         int               `json:"risk_score"` // 0-100
	IsActive          bool              `json:"is_active"`
	MFARequired       bool              `json:"mfa_required"`
	AllowedLocations  []string          `json:"allowed_locations"`
	DeviceFingerprints []string         `json:"device_fingerprints,omitempty"`
	Attributes        map[string]string `json:"attributes,omitempty"`
	Tags              map[string]string `json:"tags,omitempty"`
	AuthHistory       []AuthEvent       `json:"auth_history,omitempty"`
	LastAuthenticated *time.Time        `json:"last_authenticated,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// AuthEvent is one entry of an identity's authentication history.
type AuthEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Method    AuthMethod `json:"method"`
	Success   bool       `json:"success"`
	SourceIP  string     `json:"source_ip,omitempty"`
}

// HasRole reports whether the identity holds the given role.
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAdminRole reports whether any held role is an administrative one.
func (i *Identity) HasAdminRole() bool {
	for _, r := range i.Roles {
		if r == "admin" || r == "administrator" || r == "security_admin" || r == "super_admin" {
			return true
		}
	}
	return false
}

// AllowsLocation reports whether the location is in the identity's allowed
// list.
func (i *Identity) AllowsLocation(location string) bool {
	for _, l := range i.AllowedLocations {
		if l == location {
			return true
		}
	}
	return false
}
