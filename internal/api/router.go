package api

import (
	"github.com/gin-gonic/gin"

	"github.com/timmy/brandshot/internal/api/handler"
	"github.com/timmy/brandshot/internal/api/middleware"
	"github.com/timmy/brandshot/internal/auth"
	"github.com/timmy/brandshot/internal/logger"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Screenshot *handler.ScreenshotHandler
	Catalog    *handler.CatalogHandler
	Admin      *handler.AdminHandler
	JWTManager *auth.JWTManager
	AdminRole  string
	Logger     *logger.Logger
	CORS       middleware.CORSConfig
}

// SetupRouter configures the Gin router with all routes.
// Parameters:
//   - deps: handlers, auth manager and middleware configuration.
//   - mode: gin mode ("release", "test" or "debug").
// Returns:
//   - *gin.Engine: configured router.
func SetupRouter(deps RouterDeps, mode string) *gin.Engine {
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(deps.Logger))
	r.Use(middleware.CORS(deps.CORS))

	healthHandler := handler.NewHealthHandler()
	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		// Screenshot capture and analysis
		api.POST("/screenshot", deps.Screenshot.Capture)
		api.GET("/screenshot/status", deps.Screenshot.Status)
		api.POST("/screenshot/analyze", deps.Screenshot.Analyze)
		api.GET("/screenshot/records", deps.Screenshot.ListRecords)
		api.DELETE("/screenshot/records/:id", deps.Screenshot.DeleteRecord)

		// Catalog
		api.GET("/brands", deps.Catalog.ListBrands)
		api.GET("/brands/:slug", deps.Catalog.GetBrand)
		api.GET("/categories", deps.Catalog.ListCategories)
		api.GET("/discover/:type", deps.Catalog.Discover)
		api.GET("/pages/:id", deps.Catalog.GetPage)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuth(deps.JWTManager), middleware.RequireRole(deps.AdminRole))
	{
		admin.POST("/screenshots", deps.Admin.CreateScreenshot)
		admin.GET("/screenshots", deps.Admin.ListScreenshots)
		admin.GET("/screenshots/status", deps.Admin.ScreenshotStatus)
		admin.POST("/screenshots/status", deps.Admin.ScreenshotStatus)
		admin.GET("/screenshots/:id", deps.Admin.GetScreenshot)
		admin.POST("/screenshots/:id/refresh", deps.Admin.RefreshScreenshot)
		admin.DELETE("/screenshots/:id", deps.Admin.DeleteScreenshot)

		admin.POST("/brands", deps.Admin.CreateBrand)
		admin.PUT("/brands/:id", deps.Admin.UpdateBrand)
		admin.DELETE("/brands/:id", deps.Admin.DeleteBrand)
	}

	return r
}
