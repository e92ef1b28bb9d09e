// api/audit/service.go
package audit

import (
	"context"
	"time"

	"github.com/zt-labs/aegis/api/model"
)

type Service interface {
	ForwardEvent(ctx context.Context, event model.SecurityEvent) error
	QueryEvents(ctx context.Context, from, to time.Time, identityID, resource string) ([]model.SecurityEvent, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ForwardEvent(ctx context.Context, event model.SecurityEvent) error {
	return s.repo.IndexEvent(ctx, event)
}

func (s *service) QueryEvents(ctx context.Context, from, to time.Time, identityID, resource string) ([]model.SecurityEvent, error) {
	return s.repo.QueryEvents(ctx, from, to, identityID, resource)
}
