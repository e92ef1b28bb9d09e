// api/service/services.go
package service

import (
	"github.com/zt-labs/aegis/api/engine"
	"github.com/zt-labs/aegis/api/store"
	"github.com/zt-labs/aegis/api/util"
)

type Services struct {
	Access    IAccessService
	Directory IDirectoryService
}

func InitializeServices(
	ztEngine *engine.ZeroTrustEngine,
	directory *store.DirectoryStore,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *Services {
	return &Services{
		Access:    NewAccessService(ztEngine, validationUtil, cacheService, notificationSvc, eventBus),
		Directory: NewDirectoryService(directory, validationUtil, cacheService, notificationSvc, eventBus),
	}
}
