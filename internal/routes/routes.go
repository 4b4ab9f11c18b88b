package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"shortlink-be/internal/controllers"
	"shortlink-be/internal/middleware"
	"shortlink-be/internal/models"
	"shortlink-be/internal/service"
)

// SetupRouter wires every HTTP route onto a new gin engine. The link routes
// are served both at the root and under /api/links.
func SetupRouter(linkService service.LinkService, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Metrics(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:   []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:          12 * time.Hour,
		}),
	)

	linkController := controllers.NewLinkController(linkService)
	qrcodeController := controllers.NewQRCodeController(linkService)
	healthController := controllers.NewHealthController(linkService)

	router.GET("/health", healthController.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerLinkRoutes(router.Group("/api/links"), linkController, qrcodeController)
	registerLinkRoutes(&router.RouterGroup, linkController, qrcodeController)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Route not found",
			Code:  controllers.CodeRouteNotFound,
		})
	})

	return router
}

func registerLinkRoutes(group *gin.RouterGroup, lc *controllers.LinkController, qc *controllers.QRCodeController) {
	group.POST("/shorten", lc.CreateLink)
	group.GET("", lc.ListLinks)
	group.GET("/analytics/:shortId", lc.GetAnalytics)
	group.GET("/qrcode/:shortId", qc.GenerateQRCode)
	group.DELETE("/delete/:shortId", lc.DeleteLink)
	group.GET("/:shortId", lc.Redirect)
}
