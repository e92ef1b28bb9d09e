// api/engine/risk.go
package engine

import (
	"net/netip"

	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

// RiskWeights is the scoring profile the risk calculator applies. The
// defaults mirror the shipped policy profile; deployments tune them through
// the risk.* config keys.
type RiskWeights struct {
	Base                      int
	LowTrustPenalty           int
	NonCompliantDevicePenalty int
	UnusualLocationPenalty    int
	OffHoursPenalty           int
	ExternalAccessPenalty     int
	OffHoursStart             int // hour of day, exclusive
	OffHoursEnd               int // hour of day, exclusive
}

// DefaultRiskWeights returns the configured scoring profile.
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		Base:                      intSetting("risk.base", 50),
		LowTrustPenalty:           intSetting("risk.lowTrustPenalty", 25),
		NonCompliantDevicePenalty: intSetting("risk.nonCompliantDevicePenalty", 20),
		UnusualLocationPenalty:    intSetting("risk.unusualLocationPenalty", 30),
		OffHoursPenalty:           intSetting("risk.offHoursPenalty", 15),
		ExternalAccessPenalty:     intSetting("risk.externalAccessPenalty", 20),
		OffHoursStart:             intSetting("risk.offHoursStart", 22),
		OffHoursEnd:               intSetting("risk.offHoursEnd", 6),
	}
}

// RiskCalculator computes a 0-100 risk score for an access request from
// identity, device, location, time and network signals. It is deterministic
// over the current store state and the request fields.
type RiskCalculator struct {
	weights RiskWeights
}

func NewRiskCalculator(weights RiskWeights) *RiskCalculator {
	return &RiskCalculator{weights: weights}
}

// CalculateRisk scores the request and records the reason tags that fired in
// request.RiskFactors.
func (rc *RiskCalculator) CalculateRisk(request *model.AccessRequest, directory *store.DirectoryStore) int {
	w := rc.weights
	risk := w.Base
	factors := request.RiskFactors[:0]

	identity, identityFound := directory.Identity(request.IdentityID)
	if identityFound {
		if identity.RiskScore > 50 {
			risk += identity.RiskScore - 50
			factors = append(factors, "elevated_identity_risk")
		}
		if identity.TrustLevel == model.TrustUntrusted || identity.TrustLevel == model.TrustLow {
			risk += w.LowTrustPenalty
			factors = append(factors, "low_trust_identity")
		}
		if request.Location != "" && !identity.AllowsLocation(request.Location) {
			risk += w.UnusualLocationPenalty
			factors = append(factors, "unusual_location")
		}
	} else {
		factors = append(factors, "unknown_identity")
	}

	if request.DeviceID != "" {
		if device, ok := directory.Device(request.DeviceID); ok {
			if device.ComplianceStatus == model.ComplianceNonCompliant {
				risk += w.NonCompliantDevicePenalty
				factors = append(factors, "non_compliant_device")
			}
			if device.RiskScore > 50 {
				risk += (device.RiskScore - 50) / 2
				factors = append(factors, "elevated_device_risk")
			}
		} else {
			factors = append(factors, "unknown_device")
		}
	}

	hour := request.Timestamp.Hour()
	if hour < w.OffHoursEnd || hour > w.OffHoursStart {
		risk += w.OffHoursPenalty
		factors = append(factors, "off_hours_access")
	}

	if !isPrivateIP(request.SourceIP) {
		risk += w.ExternalAccessPenalty
		factors = append(factors, "external_access")
	}

	if risk < 0 {
		risk = 0
	}
	if risk > 100 {
		risk = 100
	}

	request.RiskFactors = factors
	request.CalculatedRisk = risk
	return risk
}

// isPrivateIP reports whether the address parses and falls in a private or
// loopback range. Unparseable addresses count as external.
func isPrivateIP(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	return addr.IsPrivate() || addr.IsLoopback()
}
