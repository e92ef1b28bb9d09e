// api/util/cache_service.go

package util

import (
	"context"

	"github.com/zt-labs/aegis/api/db"
	"github.com/zt-labs/aegis/api/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetDecision(ctx context.Context, identityID, resource, action string) (*model.AccessRequest, error) {
	return db.GetCachedDecision(ctx, identityID, resource, action)
}

func (c *CacheService) SetDecision(ctx context.Context, request *model.AccessRequest) error {
	return db.CacheDecision(ctx, request)
}

func (c *CacheService) InvalidateIdentity(ctx context.Context, identityID string) error {
	return db.InvalidateDecisions(ctx, identityID)
}

func (c *CacheService) SaveSession(ctx context.Context, session *model.Session) error {
	return db.SaveSessionSnapshot(ctx, session)
}

func (c *CacheService) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	return db.GetSessionSnapshot(ctx, sessionID)
}

func (c *CacheService) DeleteSession(ctx context.Context, sessionID string) error {
	return db.DeleteSessionSnapshot(ctx, sessionID)
}
