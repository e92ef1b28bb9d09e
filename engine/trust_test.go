// api/engine/trust_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

func TestCalculateTrust_NeutralWithoutSignals(t *testing.T) {
	evaluator := NewTrustEvaluator()
	directory := store.NewDirectoryStore()

	request := &model.AccessRequest{IdentityID: "ghost"}
	trust := evaluator.CalculateTrust(request, directory)

	assert.InDelta(t, 0.5, trust, 0.0001)
	assert.InDelta(t, 0.5, request.TrustScore, 0.0001)
}

func TestCalculateTrust_RunningMean(t *testing.T) {
	evaluator := NewTrustEvaluator()
	directory := store.NewDirectoryStore()

	identity := trustedIdentity("user-1")
	identity.TrustLevel = model.TrustVerified
	directory.AddIdentity(identity)
	device := compliantDevice("device-1")
	device.TrustLevel = model.TrustVerified
	directory.AddDevice(device)

	// (0.5+1)/2 = 0.75, then (0.75+1)/2 = 0.875, then (0.875+0.8)/2 = 0.8375.
	request := &model.AccessRequest{
		IdentityID: "user-1",
		DeviceID:   "device-1",
		AuthMethod: model.AuthMFA,
	}
	trust := evaluator.CalculateTrust(request, directory)
	assert.InDelta(t, 0.8375, trust, 0.0001)
}

func TestCalculateTrust_UntrustedIdentityDragsScoreDown(t *testing.T) {
	evaluator := NewTrustEvaluator()
	directory := store.NewDirectoryStore()

	identity := trustedIdentity("user-1")
	identity.TrustLevel = model.TrustUntrusted
	directory.AddIdentity(identity)

	request := &model.AccessRequest{
		IdentityID: "user-1",
		AuthMethod: model.AuthPassword,
	}
	// (0.5+0)/2 = 0.25, then (0.25+0.3)/2 = 0.275.
	trust := evaluator.CalculateTrust(request, directory)
	assert.InDelta(t, 0.275, trust, 0.0001)
}

func TestCalculateTrust_AbsentSignalsAreSkipped(t *testing.T) {
	evaluator := NewTrustEvaluator()
	directory := store.NewDirectoryStore()
	directory.AddIdentity(trustedIdentity("user-1"))

	// No device and no auth method: only the identity folds in.
	request := &model.AccessRequest{IdentityID: "user-1"}
	trust := evaluator.CalculateTrust(request, directory)
	assert.InDelta(t, 0.625, trust, 0.0001)

	// An unknown device ID contributes nothing.
	request = &model.AccessRequest{IdentityID: "user-1", DeviceID: "ghost-device"}
	trust = evaluator.CalculateTrust(request, directory)
	assert.InDelta(t, 0.625, trust, 0.0001)
}

func TestCalculateTrust_StaysInRange(t *testing.T) {
	evaluator := NewTrustEvaluator()
	directory := store.NewDirectoryStore()

	levels := []model.TrustLevel{model.TrustUntrusted, model.TrustLow, model.TrustMedium, model.TrustHigh, model.TrustVerified}
	methods := []model.AuthMethod{"", model.AuthPassword, model.AuthMFA, model.AuthHardwareToken}

	for _, level := range levels {
		identity := trustedIdentity("user-1")
		identity.TrustLevel = level
		directory.AddIdentity(identity)
		for _, method := range methods {
			request := &model.AccessRequest{IdentityID: "user-1", AuthMethod: method}
			trust := evaluator.CalculateTrust(request, directory)
			assert.GreaterOrEqual(t, trust, 0.0)
			assert.LessOrEqual(t, trust, 1.0)
		}
	}
}
