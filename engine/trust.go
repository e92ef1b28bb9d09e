// api/engine/trust.go
package engine

import (
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

// TrustEvaluator computes the 0.0-1.0 trust score for a request by folding
// identity trust, device trust and authentication strength into a running
// mean. Signals that are absent leave the score untouched, so a bare request
// stays at the neutral 0.5.
type TrustEvaluator struct{}

func NewTrustEvaluator() *TrustEvaluator {
	return &TrustEvaluator{}
}

func (te *TrustEvaluator) CalculateTrust(request *model.AccessRequest, directory *store.DirectoryStore) float64 {
	trust := 0.5

	if identity, ok := directory.Identity(request.IdentityID); ok {
		trust = (trust + identity.TrustLevel.Score()) / 2
	}

	if request.DeviceID != "" {
		if device, ok := directory.Device(request.DeviceID); ok {
			trust = (trust + device.TrustLevel.Score()) / 2
		}
	}

	if request.AuthMethod != "" {
		trust = (trust + request.AuthMethod.Strength()) / 2
	}

	if trust < 0 {
		trust = 0
	}
	if trust > 1 {
		trust = 1
	}

	request.TrustScore = trust
	return trust
}
