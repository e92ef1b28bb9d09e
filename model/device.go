// api/model/device.go
package model

import "time"

// Device is an endpoint with a security posture. Posture fields feed the
// risk and trust computations directly; an unknown status must read as a
// penalty, not a pass.
type Device struct {
	ID               string             `json:"id"`
	OwnerID          string             `json:"owner_id,omitempty"` // weak reference to Identity
	Fingerprint      string             `json:"fingerprint"`
	Platform         string             `json:"platform,omitempty"`
	TrustLevel       TrustLevel         `json:"trust_level"`
	ComplianceStatus ComplianceStatus   `json:"compliance_status"`
	EncryptionStatus string             `json:"encryption_status"` // "enabled", "disabled", "unknown"
	AntivirusStatus  string             `json:"antivirus_status"`  // "active", "inactive", "unknown"
	PatchStatus      string             `json:"patch_status"`      // "current", "outdated", "unknown"
	ScanResults      []VulnerabilityScan `json:"scan_results,omitempty"`
	RiskScore        int                `json:"risk_score"` // 0-100
	IsManaged        bool               `json:"is_managed"`
	LastSeen         *time.Time         `json:"last_seen,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// VulnerabilityScan is one entry of a device's scan result history.
type VulnerabilityScan struct {
	Date     time.Time `json:"date"`
	Critical int       `json:"critical"`
	High     int       `json:"high"`
	Medium   int       `json:"medium"`
	Low      int       `json:"low"`
}

// LatestScan returns the most recent scan result, or nil when the device has
// never been scanned.
func (d *Device) LatestScan() *VulnerabilityScan {
	if len(d.ScanResults) == 0 {
		return nil
	}
	latest := &d.ScanResults[0]
	for i := range d.ScanResults[1:] {
		if d.ScanResults[i+1].Date.After(latest.Date) {
			latest = &d.ScanResults[i+1]
		}
	}
	return latest
}

// IsEncrypted reports whether disk encryption is confirmed enabled.
func (d *Device) IsEncrypted() bool {
	return d.EncryptionStatus == "enabled"
}
