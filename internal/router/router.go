// Package router wires services, handlers and middleware into the HTTP engine.
package router

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"zadeet/internal/config"
	"zadeet/internal/docs"
	"zadeet/internal/handlers"
	"zadeet/internal/logger"
	"zadeet/internal/middleware"
	"zadeet/internal/services"
	"zadeet/internal/uuid"
)

// APIBasePath is the prefix of every JSON endpoint.
const APIBasePath = "/api/v1"

// New builds the HTTP engine. Every route is backed by services on db.
func New(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	tmpl, err := handlers.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.New()

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New(requestid.WithGenerator(uuid.New)))
	r.Use(middleware.RequestLogging())
	r.Use(metrics.Middleware())
	r.Use(middleware.ErrorHandler())
	r.Use(cors.New(corsConfig(cfg.AllowOrigin)))
	r.NoRoute(middleware.NotFound())
	r.SetHTMLTemplate(tmpl)

	if cfg.EnablePprof {
		logger.Get().Infow("pprof enabled", "path", "/debug/pprof")
		pprof.Register(r)
	}

	docs.SwaggerInfo.BasePath = APIBasePath
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Services
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	capService := services.NewCapService(db)
	reportService := services.NewReportService(db, cfg.Currency)

	// Handlers
	categoryHandler := handlers.NewCategoryHandler(categoryService, reportService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	capHandler := handlers.NewCapHandler(capService, reportService)
	reportHandler := handlers.NewReportHandler(reportService)
	pageHandler := handlers.NewPageHandler(reportService, transactionService)

	r.GET("/", pageHandler.Home)

	v1 := r.Group(APIBasePath)

	categories := v1.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("/tree", categoryHandler.GetCategoryTree)
	categories.GET("/totals", categoryHandler.GetCategoryTotals)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := v1.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/recent", transactionHandler.GetRecentTransactions)
	transactions.GET("/month/:period", transactionHandler.GetMonthTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	periods := v1.Group("/periods")
	periods.GET("", capHandler.GetPeriods)
	periods.GET("/:period", capHandler.GetMonthCapView)
	periods.GET("/:period/caps", capHandler.GetPeriodCaps)
	periods.PUT("/:period/caps/:category_id", capHandler.PutPeriodCap)
	periods.PATCH("/:period/caps/:category_id", capHandler.PatchPeriodCap)
	periods.DELETE("/:period/caps/:category_id", capHandler.DeletePeriodCap)

	caps := v1.Group("/caps")
	caps.POST("", capHandler.CreateCap)
	caps.PATCH("/:id", capHandler.UpdateCap)
	caps.DELETE("/:id", capHandler.DeleteCap)

	reports := v1.Group("/reports")
	reports.GET("/balance", reportHandler.GetBalance)
	reports.GET("/last-three-months", reportHandler.GetLastThreeMonths)
	reports.GET("/category-pie", reportHandler.GetCategoryPie)
	reports.GET("/dashboard", reportHandler.GetDashboard)
	reports.GET("/overview", reportHandler.GetOverview)

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"OPTIONS", "GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
