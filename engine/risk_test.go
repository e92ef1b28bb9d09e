// api/engine/risk_test.go
package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

func riskFixture() (*RiskCalculator, *store.DirectoryStore) {
	directory := store.NewDirectoryStore()
	directory.AddIdentity(trustedIdentity("user-1"))
	directory.AddDevice(compliantDevice("device-1"))
	return NewRiskCalculator(DefaultRiskWeights()), directory
}

func TestCalculateRisk_BaselineIsQuiet(t *testing.T) {
	calc, directory := riskFixture()

	request := &model.AccessRequest{
		IdentityID: "user-1",
		DeviceID:   "device-1",
		Resource:   "/app/dashboard",
		SourceIP:   "10.0.0.5",
		Location:   "hq",
		Timestamp:  businessHours,
	}

	risk := calc.CalculateRisk(request, directory)
	assert.Equal(t, 50, risk)
	assert.Empty(t, request.RiskFactors)
}

func TestCalculateRisk_Penalties(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(directory *store.DirectoryStore, request *model.AccessRequest)
		want    int
		factors []string
	}{
		{
			name: "low trust identity",
			mutate: func(directory *store.DirectoryStore, request *model.AccessRequest) {
				identity := trustedIdentity("user-1")
				identity.TrustLevel = model.TrustLow
				directory.AddIdentity(identity)
			},
			want:    75,
			factors: []string{"low_trust_identity"},
		},
		{
			name: "elevated identity risk",
			mutate: func(directory *store.DirectoryStore, request *model.AccessRequest) {
				identity := trustedIdentity("user-1")
				identity.RiskScore = 80
				directory.AddIdentity(identity)
			},
			want:    80,
			factors: []string{"elevated_identity_risk"},
		},
		{
			name: "unusual location",
			mutate: func(directory *store.DirectoryStore, request *model.AccessRequest) {
				request.Location = "somewhere_else"
			},
			want:    80,
			factors: []string{"unusual_location"},
		},
		{
			name: "unknown identity is tagged without a penalty",
			mutate: func(directory *store.DirectoryStore, request *model.AccessRequest) {
				request.IdentityID = "ghost"
				request.Location = ""
			},
			want:    50,
			factors: []string{"unknown_identity"},
		},
		{
			name: "non compliant device",
			mutate: func(directory *store.DirectoryStore, request *model.AccessRequest) {
				device := compliantDevice("device-1")
				device.ComplianceStatus = model.ComplianceNonCompliant
				directory.AddDevice(device)
			},
			want:    70,
			factors: []string{"non_compliant_device"},
		},
		{
			name: "elevated device risk is half weighted",
			mutate: func(directory *store.DirectoryStore, request *model.AccessRequest) {
				device := compliantDevice("device-1")
				device.RiskScore = 90
				directory.AddDevice(device)
			},
			want:    70,
			factors: []string{"elevated_device_risk"},
		},
		{
			name: "unknown device",
			mutate: func(directory *store.DirectoryStore, request *model.AccessRequest) {
				request.DeviceID = "ghost-device"
			},
			want:    50,
			factors: []string{"unknown_device"},
		},
		{
			name: "off hours access",
			mutate: func(directory *store.DirectoryStore, request *model.AccessRequest) {
				request.Timestamp = time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
			},
			want:    65,
			factors: []string{"off_hours_access"},
		},
		{
			name: "external source address",
			mutate: func(directory *store.DirectoryStore, request *model.AccessRequest) {
				request.SourceIP = "203.0.113.7"
			},
			want:    70,
			factors: []string{"external_access"},
		},
		{
			name: "unparseable source address counts as external",
			mutate: func(directory *store.DirectoryStore, request *model.AccessRequest) {
				request.SourceIP = "not-an-ip"
			},
			want:    70,
			factors: []string{"external_access"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, directory := riskFixture()
			request := &model.AccessRequest{
				IdentityID: "user-1",
				DeviceID:   "device-1",
				Resource:   "/app/dashboard",
				SourceIP:   "10.0.0.5",
				Location:   "hq",
				Timestamp:  businessHours,
			}
			tt.mutate(directory, request)

			risk := calc.CalculateRisk(request, directory)
			assert.Equal(t, tt.want, risk)
			assert.Equal(t, tt.factors, request.RiskFactors)
		})
	}
}

func TestCalculateRisk_ClampsAtHundred(t *testing.T) {
	calc, directory := riskFixture()
	identity := trustedIdentity("user-1")
	identity.TrustLevel = model.TrustUntrusted
	identity.RiskScore = 95
	directory.AddIdentity(identity)
	device := compliantDevice("device-1")
	device.ComplianceStatus = model.ComplianceNonCompliant
	device.RiskScore = 95
	directory.AddDevice(device)

	request := &model.AccessRequest{
		IdentityID: "user-1",
		DeviceID:   "device-1",
		Resource:   "/app/dashboard",
		SourceIP:   "203.0.113.7",
		Location:   "somewhere_else",
		Timestamp:  time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC),
	}

	risk := calc.CalculateRisk(request, directory)
	assert.Equal(t, 100, risk)
}

func TestCalculateRisk_RiskierContextNeverScoresLower(t *testing.T) {
	calc, directory := riskFixture()
	identity := trustedIdentity("user-2")
	identity.TrustLevel = model.TrustLow
	directory.AddIdentity(identity)

	safe := &model.AccessRequest{
		IdentityID: "user-1",
		DeviceID:   "device-1",
		SourceIP:   "10.0.0.5",
		Location:   "hq",
		Timestamp:  businessHours,
	}
	risky := &model.AccessRequest{
		IdentityID: "user-2",
		SourceIP:   "203.0.113.7",
		Location:   "somewhere_else",
		Timestamp:  time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
	}

	safeScore := calc.CalculateRisk(safe, directory)
	riskyScore := calc.CalculateRisk(risky, directory)
	assert.Greater(t, riskyScore, safeScore)
}

func TestIsPrivateIP(t *testing.T) {
	assert.True(t, isPrivateIP("10.0.0.5"))
	assert.True(t, isPrivateIP("192.168.1.20"))
	assert.True(t, isPrivateIP("172.16.0.9"))
	assert.True(t, isPrivateIP("127.0.0.1"))
	assert.False(t, isPrivateIP("203.0.113.7"))
	assert.False(t, isPrivateIP("8.8.8.8"))
	assert.False(t, isPrivateIP(""))
	assert.False(t, isPrivateIP("garbage"))
}
