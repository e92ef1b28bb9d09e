// api/controller/controllers.go
package controller

import (
	"github.com/zt-labs/aegis/api/audit"
	"github.com/zt-labs/aegis/api/service"
)

type Controllers struct {
	Access    *AccessController
	Session   *SessionController
	Directory *DirectoryController
}

func InitializeControllers(services *service.Services, auditService audit.Service) *Controllers {
	return &Controllers{
		Access:    NewAccessController(services.Access, auditService),
		Session:   NewSessionController(services.Access),
		Directory: NewDirectoryController(services.Directory),
	}
}
