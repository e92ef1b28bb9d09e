// api/engine/session.go
package engine

import (
	"hash/fnv"
	"sync"
	"time"

	zt_errors "github.com/zt-labs/aegis/api/errors"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
)

const sessionShards = 16

// SessionManager owns continuous-authentication state. Sessions are sharded
// by ID so checks on different sessions never contend on one lock.
type SessionManager struct {
	shards [sessionShards]sessionShard
}

type sessionShard struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func NewSessionManager() *SessionManager {
	sm := &SessionManager{}
	for i := range sm.shards {
		sm.shards[i].sessions = make(map[string]*model.Session)
	}
	return sm
}

func (sm *SessionManager) shard(sessionID string) *sessionShard {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &sm.shards[h.Sum32()%sessionShards]
}

// StartSession registers a new active session, overwriting any previous
// state under the same ID.
func (sm *SessionManager) StartSession(session *model.Session) {
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}
	if session.LastActivity.IsZero() {
		session.LastActivity = session.StartedAt
	}
	if session.Status == "" {
		session.Status = model.SessionActive
	}
	shard := sm.shard(session.ID)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.sessions[session.ID] = session
}

// Session returns a copy of the session state.
func (sm *SessionManager) Session(sessionID string) (model.Session, bool) {
	shard := sm.shard(sessionID)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	session, ok := shard.sessions[sessionID]
	if !ok {
		return model.Session{}, false
	}
	return *session, true
}

// Touch records session activity.
func (sm *SessionManager) Touch(sessionID string) {
	shard := sm.shard(sessionID)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if session, ok := shard.sessions[sessionID]; ok {
		session.LastActivity = time.Now()
	}
}

// ContinuousAuthResult is the outcome of one continuous-authentication check.
type ContinuousAuthResult struct {
	SessionID            string        `json:"session_id"`
	BehavioralScore      int           `json:"behavioral_score"`
	DevicePostureScore   int           `json:"device_posture_score"`
	LocationScore        int           `json:"location_score"`
	ContinuousTrustScore float64       `json:"continuous_trust_score"`
	Action               string        `json:"action"`
	SessionStatus        model.SessionStatus `json:"session_status"`
}

// ContinuousAuthentication re-evaluates an active session from behavioral,
// device-posture and location signals and applies the threshold actions:
// terminate, require re-auth, escalate monitoring, or continue.
func (sm *SessionManager) ContinuousAuthentication(sessionID string, directory *store.DirectoryStore) (*ContinuousAuthResult, error) {
	shard := sm.shard(sessionID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	session, ok := shard.sessions[sessionID]
	if !ok {
		return nil, zt_errors.ErrSessionNotFound
	}

	behavioral := behavioralScore(session, directory)
	posture := devicePostureScore(session.DeviceID, directory)
	location := locationScore(session, directory)

	trust := float64(behavioral+posture+location) / 3.0
	session.ContinuousTrustScore = trust

	result := &ContinuousAuthResult{
		SessionID:            sessionID,
		BehavioralScore:      behavioral,
		DevicePostureScore:   posture,
		LocationScore:        location,
		ContinuousTrustScore: trust,
	}

	result.Action = applyTrustThresholds(session, trust)
	result.SessionStatus = session.Status
	return result, nil
}

// applyTrustThresholds maps a continuous trust score onto the session action
// and mutates the session status accordingly.
func applyTrustThresholds(session *model.Session, trust float64) string {
	switch {
	case trust < float64(intSetting("session.terminateBelow", 30)):
		session.Status = model.SessionTerminated
		return "terminate_session"
	case trust < float64(intSetting("session.reauthBelow", 50)):
		session.Status = model.SessionReauthRequired
		return "require_reauth"
	case trust < float64(intSetting("session.monitorBelow", 70)):
		session.Status = model.SessionMonitoring
		session.MonitoringLevel = "elevated"
		return "increase_monitoring"
	default:
		session.Status = model.SessionActive
		return "continue"
	}
}

// behavioralScore derives a 0-100 score from observable session behavior:
// idle time since last activity, the failure ratio in the identity's recent
// authentication history, and whether the session location matches the
// identity's allowed set.
func behavioralScore(session *model.Session, directory *store.DirectoryStore) int {
	score := 75

	idle := time.Since(session.LastActivity)
	switch {
	case idle > 4*time.Hour:
		score -= 25
	case idle > time.Hour:
		score -= 10
	}

	if identity, ok := directory.Identity(session.IdentityID); ok {
		recent := identity.AuthHistory
		if len(recent) > 10 {
			recent = recent[len(recent)-10:]
		}
		failures := 0
		for _, event := range recent {
			if !event.Success {
				failures++
			}
		}
		if len(recent) > 0 {
			score -= (failures * 50) / len(recent)
		}
		if session.Location != "" && !identity.AllowsLocation(session.Location) {
			score -= 15
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// devicePostureScore starts at 100 and subtracts posture penalties, floored
// at zero. An unknown device reads as the neutral 50.
func devicePostureScore(deviceID string, directory *store.DirectoryStore) int {
	if deviceID == "" {
		return 50
	}
	device, ok := directory.Device(deviceID)
	if !ok {
		return 50
	}

	score := 100
	if device.ComplianceStatus != model.ComplianceCompliant {
		score -= 30
	}
	if !device.IsEncrypted() {
		score -= 20
	}
	if device.AntivirusStatus != "active" {
		score -= 15
	}
	if device.PatchStatus != "current" {
		score -= 10
	}
	if scan := device.LatestScan(); scan != nil {
		score -= 10 * scan.Critical
		score -= 5 * scan.High
	}
	if score < 0 {
		score = 0
	}
	return score
}

func locationScore(session *model.Session, directory *store.DirectoryStore) int {
	if session.Location == "" {
		return 50
	}
	identity, ok := directory.Identity(session.IdentityID)
	if !ok {
		return 50
	}
	if identity.AllowsLocation(session.Location) {
		return 100
	}
	if identity.AllowsLocation("remote") || identity.AllowsLocation("anywhere") {
		return 80
	}
	return 20
}
