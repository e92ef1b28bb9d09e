// api/engine/policy.go
package engine

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	logger "github.com/zt-labs/aegis/api/logging"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

// PolicyEngine matches requests against the policy set and evaluates the
// governing policy into a final action.
type PolicyEngine struct{}

func NewPolicyEngine() *PolicyEngine {
	return &PolicyEngine{}
}

// FindMatchingPolicies returns every enabled policy whose resource pattern
// and identity pattern both match the request, sorted by priority with
// lexical policy ID as the tie-break. The first entry governs the decision.
func (pe *PolicyEngine) FindMatchingPolicies(request *model.AccessRequest, policies []*model.AccessPolicy) []*model.AccessPolicy {
	var matched []*model.AccessPolicy
	for _, policy := range policies {
		if !policy.Enabled {
			continue
		}
		if !matchesAny(request.Resource, policy.ResourcePatterns) {
			continue
		}
		if !matchesAny(request.IdentityID, policy.IdentityPatterns) {
			continue
		}
		matched = append(matched, policy)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority < matched[j].Priority
		}
		return matched[i].ID < matched[j].ID
	})
	return matched
}

// matchesAny applies the pattern rules: "/*" and "*" match everything, a
// trailing "*" matches on prefix, an embedded "*" is treated as a regex
// wildcard, anything else is exact equality.
func matchesAny(value string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchPattern(value, pattern) {
			return true
		}
	}
	return false
}

func matchPattern(value, pattern string) bool {
	switch {
	case pattern == "/*" || pattern == "*":
		return true
	case strings.HasSuffix(pattern, "*") && strings.Count(pattern, "*") == 1:
		return strings.HasPrefix(value, strings.TrimSuffix(pattern, "*"))
	case strings.Contains(pattern, "*"):
		expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"
		re, err := regexp.Compile(expr)
		if err != nil {
			logger.Warn("Invalid policy pattern", zap.String("pattern", pattern), zap.Error(err))
			return false
		}
		return re.MatchString(value)
	default:
		return value == pattern
	}
}

// EvaluatePolicy applies the policy's checks in fixed order, short-circuiting
// on the first failure. Risk and authentication-strength gates run before
// posture, location, time and identity gates, so a high-risk request is
// rejected before any softer reason is evaluated. The returned reason names
// the gate that fired.
func (pe *PolicyEngine) EvaluatePolicy(policy *model.AccessPolicy, request *model.AccessRequest, directory *store.DirectoryStore) (model.PolicyAction, string) {
	if request.CalculatedRisk > policy.RiskThreshold {
		return model.ActionDeny, "risk_threshold_exceeded"
	}

	if !policy.AcceptsAuthMethod(request.AuthMethod) {
		return model.ActionChallenge, "authentication_upgrade_required"
	}

	if request.DeviceID != "" {
		if device, ok := directory.Device(request.DeviceID); ok {
			if reason, ok := checkDeviceRequirements(policy.DeviceRequirements, device); !ok {
				return model.ActionDeny, reason
			}
		}
	}

	if len(policy.LocationRestrictions) > 0 {
		if !locationPermitted(request.Location, policy.LocationRestrictions) {
			return model.ActionDeny, "location_not_permitted"
		}
	}

	if policy.TimeRestrictions.BusinessHoursOnly && !isBusinessHours(request.Timestamp) {
		return model.ActionDeny, "outside_business_hours"
	}

	if identity, ok := directory.Identity(request.IdentityID); ok {
		if reason, ok := checkIdentityConditions(policy.Conditions, identity); !ok {
			return model.ActionDeny, reason
		}
	}

	return policy.Action, "policy_conditions_met"
}

func checkDeviceRequirements(req model.DeviceRequirements, device *model.Device) (string, bool) {
	if req.ComplianceStatus != "" && device.ComplianceStatus != req.ComplianceStatus {
		return "device_compliance_mismatch", false
	}
	if req.EncryptionRequired && !device.IsEncrypted() {
		return "device_encryption_required", false
	}
	if req.ManagedRequired && !device.IsManaged {
		return "managed_device_required", false
	}
	return "", true
}

func locationPermitted(location string, restrictions []string) bool {
	if location == "" {
		return false
	}
	for _, allowed := range restrictions {
		if allowed == "anywhere" || allowed == location {
			return true
		}
	}
	return false
}

func isBusinessHours(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return t.Hour() >= 9 && t.Hour() < 17
}

func checkIdentityConditions(conditions model.PolicyConditions, identity *model.Identity) (string, bool) {
	for _, role := range conditions.RequiredRoles {
		if !identity.HasRole(role) {
			return "required_role_missing", false
		}
	}
	if conditions.TrustLevelMin != "" && !identity.TrustLevel.AtLeast(conditions.TrustLevelMin) {
		return "trust_level_below_minimum", false
	}
	if conditions.MFARequired && !identity.MFARequired {
		return "mfa_enrollment_required", false
	}
	return "", true
}
