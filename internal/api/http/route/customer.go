package route

import (
	"github.com/gin-gonic/gin"
)

type CustomerHandler interface {
	Ingest(c *gin.Context)
	Stream(c *gin.Context)
}

// RegisterCustomerRoutes leaves the stream without a timeout, it is long-lived.
func RegisterCustomerRoutes(g *gin.RouterGroup, h CustomerHandler, timeoutMiddleware gin.HandlerFunc) {
	g.POST("", timeoutMiddleware, h.Ingest)
	g.GET("/stream", h.Stream)
}
