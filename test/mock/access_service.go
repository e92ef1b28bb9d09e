// test/mock/access_service.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zt-labs/aegis/api/engine"
	"github.com/zt-labs/aegis/api/model"
)

// MockAccessService is a mock implementation of service.IAccessService
type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) EvaluateAccess(ctx context.Context, request *model.AccessRequest) (*model.AccessRequest, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRequest), args.Error(1)
}

func (m *MockAccessService) StartSession(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockAccessService) ContinuousAuth(ctx context.Context, sessionID string) (*engine.ContinuousAuthResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.ContinuousAuthResult), args.Error(1)
}

func (m *MockAccessService) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockAccessService) SegmentationCheck(ctx context.Context, srcIP, dstIP string, port int, protocol string) *engine.SegmentationResult {
	args := m.Called(ctx, srcIP, dstIP, port, protocol)
	return args.Get(0).(*engine.SegmentationResult)
}

func (m *MockAccessService) AdaptiveAuth(ctx context.Context, identityID string, authCtx map[string]string) (*engine.AdaptiveAuthResult, error) {
	args := m.Called(ctx, identityID, authCtx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.AdaptiveAuthResult), args.Error(1)
}

func (m *MockAccessService) RecordAuthentication(ctx context.Context, identityID string, method model.AuthMethod, success bool, sourceIP string) error {
	args := m.Called(ctx, identityID, method, success, sourceIP)
	return args.Error(0)
}

func (m *MockAccessService) RecentRequests(n int) []*model.AccessRequest {
	args := m.Called(n)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*model.AccessRequest)
}

func (m *MockAccessService) RecentEvents(n int) []*model.SecurityEvent {
	args := m.Called(n)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*model.SecurityEvent)
}

func (m *MockAccessService) ResolveEvent(eventID string) error {
	args := m.Called(eventID)
	return args.Error(0)
}
