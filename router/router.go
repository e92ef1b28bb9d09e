// api/router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zt-labs/aegis/api/controller"
	"github.com/zt-labs/aegis/api/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
	adminGroups []string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api/v1")

	controllers.Access.RegisterRoutes(api)
	controllers.Session.RegisterRoutes(api)

	// The registration surface is an administrative inbound; it is gated
	// behind the fronting IdP's groups when configured.
	admin := api.Group("/directory")
	if len(adminGroups) > 0 {
		admin.Use(middleware.AdminAuth(adminGroups))
	}
	controllers.Directory.RegisterRoutes(admin)

	return router
}
