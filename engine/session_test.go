// api/engine/session_test.go
package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zt_errors "github.com/zt-labs/aegis/api/errors"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

func TestApplyTrustThresholds(t *testing.T) {
	tests := []struct {
		trust      float64
		action     string
		status     model.SessionStatus
		monitoring string
	}{
		{29, "terminate_session", model.SessionTerminated, ""},
		{31, "require_reauth", model.SessionReauthRequired, ""},
		{49.9, "require_reauth", model.SessionReauthRequired, ""},
		{55, "increase_monitoring", model.SessionMonitoring, "elevated"},
		{69.9, "increase_monitoring", model.SessionMonitoring, "elevated"},
		{70, "continue", model.SessionActive, ""},
		{95, "continue", model.SessionActive, ""},
	}

	for _, tt := range tests {
		session := &model.Session{ID: "session-1", Status: model.SessionActive}
		action := applyTrustThresholds(session, tt.trust)
		assert.Equal(t, tt.action, action, "trust %v", tt.trust)
		assert.Equal(t, tt.status, session.Status, "trust %v", tt.trust)
		assert.Equal(t, tt.monitoring, session.MonitoringLevel, "trust %v", tt.trust)
	}
}

func TestSessionManager_Lifecycle(t *testing.T) {
	sm := NewSessionManager()

	sm.StartSession(&model.Session{ID: "session-1", IdentityID: "user-1"})

	session, ok := sm.Session("session-1")
	require.True(t, ok)
	assert.Equal(t, model.SessionActive, session.Status)
	assert.False(t, session.StartedAt.IsZero())
	assert.False(t, session.LastActivity.IsZero())

	_, ok = sm.Session("missing")
	assert.False(t, ok)

	before := session.LastActivity
	time.Sleep(5 * time.Millisecond)
	sm.Touch("session-1")
	session, _ = sm.Session("session-1")
	assert.True(t, session.LastActivity.After(before))
}

func TestContinuousAuthentication_UnknownSession(t *testing.T) {
	sm := NewSessionManager()
	_, err := sm.ContinuousAuthentication("missing", store.NewDirectoryStore())
	assert.ErrorIs(t, err, zt_errors.ErrSessionNotFound)
}

func TestContinuousAuthentication_HealthySession(t *testing.T) {
	sm := NewSessionManager()
	directory := store.NewDirectoryStore()
	directory.AddIdentity(trustedIdentity("user-1"))
	directory.AddDevice(compliantDevice("device-1"))

	sm.StartSession(&model.Session{
		ID:         "session-1",
		IdentityID: "user-1",
		DeviceID:   "device-1",
		Location:   "hq",
	})

	result, err := sm.ContinuousAuthentication("session-1", directory)
	require.NoError(t, err)

	// Fresh activity, clean history, compliant device, allowed location:
	// (75 + 100 + 100) / 3.
	assert.Equal(t, 75, result.BehavioralScore)
	assert.Equal(t, 100, result.DevicePostureScore)
	assert.Equal(t, 100, result.LocationScore)
	assert.InDelta(t, 91.66, result.ContinuousTrustScore, 0.1)
	assert.Equal(t, "continue", result.Action)
	assert.Equal(t, model.SessionActive, result.SessionStatus)

	session, _ := sm.Session("session-1")
	assert.InDelta(t, 91.66, session.ContinuousTrustScore, 0.1)
}

func TestContinuousAuthentication_DegradedSessionTerminates(t *testing.T) {
	sm := NewSessionManager()
	directory := store.NewDirectoryStore()

	identity := trustedIdentity("user-1")
	for i := 0; i < 10; i++ {
		identity.AuthHistory = append(identity.AuthHistory, model.AuthEvent{Success: false})
	}
	directory.AddIdentity(identity)

	device := compliantDevice("device-1")
	device.ComplianceStatus = model.ComplianceNonCompliant
	device.EncryptionStatus = "disabled"
	device.AntivirusStatus = "inactive"
	device.PatchStatus = "outdated"
	device.ScanResults = []model.VulnerabilityScan{{Date: time.Now(), Critical: 2, High: 2}}
	directory.AddDevice(device)

	sm.StartSession(&model.Session{
		ID:           "session-1",
		IdentityID:   "user-1",
		DeviceID:     "device-1",
		Location:     "somewhere_else",
		LastActivity: time.Now().Add(-5 * time.Hour),
	})

	result, err := sm.ContinuousAuthentication("session-1", directory)
	require.NoError(t, err)

	// Behavior: 75 - 25 idle - 50 failure ratio - 15 location = 0 (floored).
	assert.Equal(t, 0, result.BehavioralScore)
	// Posture: 100 - 30 - 20 - 15 - 10 - 20 - 10 = 0 (floored).
	assert.Equal(t, 0, result.DevicePostureScore)
	assert.Equal(t, 20, result.LocationScore)
	assert.Equal(t, "terminate_session", result.Action)
	assert.Equal(t, model.SessionTerminated, result.SessionStatus)
}

func TestDevicePostureScore(t *testing.T) {
	directory := store.NewDirectoryStore()
	directory.AddDevice(compliantDevice("device-1"))

	assert.Equal(t, 100, devicePostureScore("device-1", directory))
	assert.Equal(t, 50, devicePostureScore("", directory))
	assert.Equal(t, 50, devicePostureScore("ghost-device", directory))

	scanned := compliantDevice("device-2")
	scanned.ScanResults = []model.VulnerabilityScan{
		{Date: time.Now().Add(-48 * time.Hour), Critical: 5, High: 5},
		{Date: time.Now(), Critical: 1, High: 2},
	}
	directory.AddDevice(scanned)
	// Only the latest scan counts: 100 - 10*1 - 5*2.
	assert.Equal(t, 80, devicePostureScore("device-2", directory))
}

func TestLocationScore(t *testing.T) {
	directory := store.NewDirectoryStore()
	directory.AddIdentity(trustedIdentity("user-1"))

	remote := trustedIdentity("user-2")
	remote.AllowedLocations = []string{"remote"}
	directory.AddIdentity(remote)

	assert.Equal(t, 100, locationScore(&model.Session{IdentityID: "user-1", Location: "hq"}, directory))
	assert.Equal(t, 80, locationScore(&model.Session{IdentityID: "user-2", Location: "coffee_shop"}, directory))
	assert.Equal(t, 20, locationScore(&model.Session{IdentityID: "user-1", Location: "coffee_shop"}, directory))
	assert.Equal(t, 50, locationScore(&model.Session{IdentityID: "user-1"}, directory))
	assert.Equal(t, 50, locationScore(&model.Session{IdentityID: "ghost", Location: "hq"}, directory))
}
