// api/util/validation_util.go

package util

import (
	"fmt"
	"net/netip"

	"github.com/zt-labs/aegis/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateIdentity(identity model.Identity) error {
	if identity.ID == "" {
		return fmt.Errorf("identity ID cannot be empty")
	}
	if !identity.TrustLevel.Valid() {
		return fmt.Errorf("invalid trust level: %q", identity.TrustLevel)
	}
	if identity.RiskScore < 0 || identity.RiskScore > 100 {
		return fmt.Errorf("identity risk score must be in [0,100]")
	}
	for _, method := range identity.AuthMethods {
		if !method.Valid() {
			return fmt.Errorf("invalid auth method: %q", method)
		}
	}
	return nil
}

func (v *ValidationUtil) ValidateDevice(device model.Device) error {
	if device.ID == "" {
		return fmt.Errorf("device ID cannot be empty")
	}
	if device.Fingerprint == "" {
		return fmt.Errorf("device fingerprint cannot be empty")
	}
	if !device.TrustLevel.Valid() {
		return fmt.Errorf("invalid trust level: %q", device.TrustLevel)
	}
	if device.RiskScore < 0 || device.RiskScore > 100 {
		return fmt.Errorf("device risk score must be in [0,100]")
	}
	return nil
}

func (v *ValidationUtil) ValidateNetworkSegment(segment model.NetworkSegment) error {
	if segment.ID == "" {
		return fmt.Errorf("segment ID cannot be empty")
	}
	if len(segment.CIDRBlocks) == 0 {
		return fmt.Errorf("segment must have at least one CIDR block")
	}
	for _, block := range segment.CIDRBlocks {
		if _, err := netip.ParsePrefix(block); err != nil {
			return fmt.Errorf("invalid CIDR block %q: %w", block, err)
		}
	}
	if !segment.TrustLevel.Valid() {
		return fmt.Errorf("invalid trust level: %q", segment.TrustLevel)
	}
	return nil
}

func (v *ValidationUtil) ValidateAccessPolicy(policy model.AccessPolicy) error {
	if policy.ID == "" {
		return fmt.Errorf("policy ID cannot be empty")
	}
	if policy.Name == "" {
		return fmt.Errorf("policy name cannot be empty")
	}
	if !policy.Action.Valid() {
		return fmt.Errorf("invalid policy action: %q", policy.Action)
	}
	if policy.Priority < 0 {
		return fmt.Errorf("policy priority cannot be negative")
	}
	if len(policy.ResourcePatterns) == 0 {
		return fmt.Errorf("policy must have at least one resource pattern")
	}
	if len(policy.IdentityPatterns) == 0 {
		return fmt.Errorf("policy must have at least one identity pattern")
	}
	if policy.RiskThreshold < 0 || policy.RiskThreshold > 100 {
		return fmt.Errorf("policy risk threshold must be in [0,100]")
	}
	return nil
}

func (v *ValidationUtil) ValidateAccessRequest(request model.AccessRequest) error {
	if request.IdentityID == "" {
		return fmt.Errorf("access request identity ID cannot be empty")
	}
	if request.Resource == "" {
		return fmt.Errorf("access request resource cannot be empty")
	}
	if request.SourceIP == "" {
		return fmt.Errorf("access request source IP cannot be empty")
	}
	return nil
}
