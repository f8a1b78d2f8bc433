package route

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer-relay/internal/api/http/handler"
	"customer-relay/internal/api/http/middleware"
	"customer-relay/internal/config"
)

func SetupRouter(
	log *zap.Logger,
	cfg *config.Config,
	healthHdl HealthHandler,
	customerHdl CustomerHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard

	router := gin.New()
	router.Use(gin.Recovery())

	// middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORS))

	timeoutMiddleware := middleware.RequestTimeout(cfg.HTTPServer.Timeout.Request)

	router.HandleMethodNotAllowed = true
	router.NoMethod(handler.NoMethod)
	router.NoRoute(handler.NoRoute)

	basePath := router.Group(cfg.BasePath)

	docsPath := basePath.Group("/docs")
	RegisterDock(docsPath)

	healthPath := basePath.Group("/health")
	RegisterHealth(healthPath, healthHdl, timeoutMiddleware)

	customerPath := basePath.Group("/customers")
	RegisterCustomerRoutes(customerPath, customerHdl, timeoutMiddleware)

	return router
}
