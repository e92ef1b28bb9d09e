// api/service/directory_service.go
package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	zt_errors "github.com/zt-labs/aegis/api/errors"
	logger "github.com/zt-labs/aegis/api/logging"
	"github.com/zt-labs/aegis/api/model"
	"github.com/zt-labs/aegis/api/store"
	"github.com/zt-labs/aegis/api/util"
)

// IDirectoryService is the administrative registration surface.
type IDirectoryService interface {
	RegisterIdentity(ctx context.Context, identity model.Identity) error
	RegisterDevice(ctx context.Context, device model.Device) error
	RegisterNetworkSegment(ctx context.Context, segment model.NetworkSegment) error
	RegisterAccessPolicy(ctx context.Context, policy model.AccessPolicy) error
	BulkRegisterIdentities(ctx context.Context, identities []model.Identity) error
	GetIdentity(ctx context.Context, id string) (*model.Identity, error)
	GetPolicy(ctx context.Context, id string) (*model.AccessPolicy, error)
	Status(ctx context.Context) map[string]int
}

// DirectoryService validates and registers directory records, keeping the
// decision cache and event subscribers informed of changes.
type DirectoryService struct {
	directory       *store.DirectoryStore
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

func NewDirectoryService(
	directory *store.DirectoryStore,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *DirectoryService {
	return &DirectoryService{
		directory:       directory,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}
}

func (s *DirectoryService) RegisterIdentity(ctx context.Context, identity model.Identity) error {
	if err := s.validationUtil.ValidateIdentity(identity); err != nil {
		logger.Warn("Rejected identity registration", zap.Error(err))
		return zt_errors.ErrInvalidIdentityData
	}

	s.directory.AddIdentity(&identity)
	s.eventBus.Publish(ctx, "identity.registered", identity)

	// Registration may replace an existing record, so cached decisions for
	// this identity are stale.
	if err := s.cacheService.InvalidateIdentity(ctx, identity.ID); err != nil {
		logger.Warn("Failed to invalidate cached decisions", zap.Error(err), zap.String("identityID", identity.ID))
	}
	return nil
}

func (s *DirectoryService) RegisterDevice(ctx context.Context, device model.Device) error {
	if err := s.validationUtil.ValidateDevice(device); err != nil {
		logger.Warn("Rejected device registration", zap.Error(err))
		return zt_errors.ErrInvalidDeviceData
	}
	s.directory.AddDevice(&device)
	s.eventBus.Publish(ctx, "device.registered", device)
	return nil
}

func (s *DirectoryService) RegisterNetworkSegment(ctx context.Context, segment model.NetworkSegment) error {
	if err := s.validationUtil.ValidateNetworkSegment(segment); err != nil {
		logger.Warn("Rejected segment registration", zap.Error(err))
		return zt_errors.ErrInvalidSegmentData
	}
	s.directory.AddNetworkSegment(&segment)
	s.eventBus.Publish(ctx, "segment.registered", segment)
	return nil
}

func (s *DirectoryService) RegisterAccessPolicy(ctx context.Context, policy model.AccessPolicy) error {
	if err := s.validationUtil.ValidateAccessPolicy(policy); err != nil {
		logger.Warn("Rejected policy registration", zap.Error(err))
		return zt_errors.ErrInvalidPolicyData
	}
	s.directory.AddAccessPolicy(&policy)
	s.eventBus.Publish(ctx, "policy.registered", policy)

	if err := s.notificationSvc.NotifyPolicyChange(ctx, "registered", policy); err != nil {
		logger.Warn("Failed to send policy notification", zap.Error(err), zap.String("policyID", policy.ID))
	}
	return nil
}

// BulkRegisterIdentities registers an IAM sync batch. Validation runs
// concurrently; the batch is rejected wholesale on the first invalid record.
func (s *DirectoryService) BulkRegisterIdentities(ctx context.Context, identities []model.Identity) error {
	g, _ := errgroup.WithContext(ctx)
	for i := range identities {
		identity := identities[i]
		g.Go(func() error {
			return s.validationUtil.ValidateIdentity(identity)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("Rejected identity batch", zap.Error(err), zap.Int("size", len(identities)))
		return zt_errors.ErrInvalidIdentityData
	}

	for i := range identities {
		if err := s.RegisterIdentity(ctx, identities[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *DirectoryService) GetIdentity(ctx context.Context, id string) (*model.Identity, error) {
	identity, ok := s.directory.Identity(id)
	if !ok {
		return nil, zt_errors.ErrIdentityNotFound
	}
	return identity, nil
}

func (s *DirectoryService) GetPolicy(ctx context.Context, id string) (*model.AccessPolicy, error) {
	policy, ok := s.directory.Policy(id)
	if !ok {
		return nil, zt_errors.ErrPolicyNotFound
	}
	return policy, nil
}

func (s *DirectoryService) Status(ctx context.Context) map[string]int {
	identities, devices, segments, policies := s.directory.Counts()
	return map[string]int{
		"identities": identities,
		"devices":    devices,
		"segments":   segments,
		"policies":   policies,
	}
}
