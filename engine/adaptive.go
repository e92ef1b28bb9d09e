// api/engine/adaptive.go
package engine

import (
	"strings"
	"time"

	zt_errors "github.com/zt-labs/aegis/api/errors"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

// AdaptiveAuthResult describes the step-up requirements derived for one
// authentication attempt.
type AdaptiveAuthResult struct {
	IdentityID      string                `json:"identity_id"`
	RequiredMethods []model.AuthMethod    `json:"required_methods"`
	Challenges      []string              `json:"challenges,omitempty"`
	RiskFactors     []string              `json:"risk_factors,omitempty"`
	AdaptiveScore   int                   `json:"adaptive_score"`
	SessionControls model.SessionControls `json:"session_controls"`
}

// Exit-node and scanner ranges flagged by the threat feed snapshot.
var suspiciousPrefixes = []string{"185.220.", "171.25.193.", "23.129.64."}

var knownBrowserMarkers = []string{"Mozilla", "Chrome", "Safari", "Firefox", "Edg"}

// AdaptiveAuthentication derives the authentication methods and verification
// challenges to demand from an identity given the attempt context. Password
// is always the baseline; every risk signal adds on top of it.
func AdaptiveAuthentication(directory *store.DirectoryStore, identityID string, authCtx map[string]string) (*AdaptiveAuthResult, error) {
	identity, ok := directory.Identity(identityID)
	if !ok {
		return nil, zt_errors.ErrIdentityNotFound
	}

	result := &AdaptiveAuthResult{
		IdentityID:      identityID,
		RequiredMethods: []model.AuthMethod{model.AuthPassword},
	}

	requireMFA := false

	if location := authCtx["location"]; location != "" && !identity.AllowsLocation(location) {
		requireMFA = true
		result.Challenges = append(result.Challenges, "location_verification")
		result.RiskFactors = append(result.RiskFactors, "unusual_location")
	}

	hour := time.Now().Hour()
	if hour < 6 || hour > 22 {
		requireMFA = true
		result.RiskFactors = append(result.RiskFactors, "off_hours_authentication")
	}

	if sourceIP := authCtx["source_ip"]; sourceIP != "" && isSuspiciousIP(sourceIP) {
		requireMFA = true
		result.Challenges = append(result.Challenges, "device_verification")
		result.RiskFactors = append(result.RiskFactors, "suspicious_source_ip")
	}

	if userAgent, present := authCtx["user_agent"]; present && !isKnownBrowser(userAgent) {
		result.Challenges = append(result.Challenges, "browser_verification")
		result.RiskFactors = append(result.RiskFactors, "unrecognized_user_agent")
	}

	adminBonus := 0
	if identity.HasAdminRole() {
		requireMFA = true
		adminBonus = 20
	}

	if requireMFA {
		result.RequiredMethods = append(result.RequiredMethods, model.AuthMFA)
	}

	score := 50 - 15*len(result.RiskFactors) + adminBonus
	if score < 0 {
		score = 0
	}
	result.AdaptiveScore = score

	result.SessionControls = model.SessionControls{
		MaxDuration: 8 * time.Hour,
		IdleTimeout: 30 * time.Minute,
	}
	if len(result.RiskFactors) > 0 {
		result.SessionControls.MaxDuration = 2 * time.Hour
		result.SessionControls.IdleTimeout = 10 * time.Minute
		result.SessionControls.RequireReauth = true
	}

	return result, nil
}

func isSuspiciousIP(ip string) bool {
	for _, prefix := range suspiciousPrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}

func isKnownBrowser(userAgent string) bool {
	for _, marker := range knownBrowserMarkers {
		if strings.Contains(userAgent, marker) {
			return true
		}
	}
	return false
}
