package http

import (
	"github.com/gin-gonic/gin"

	"github.com/easyseas/pointtracker/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	logger := handler.state.Logger

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		data := v1.Group("/data")
		{
			data.PUT("/:key", handler.PutData)
			data.GET("/:key", handler.GetData)
		}

		financials := v1.Group("/financials")
		{
			financials.POST("/import", handler.ImportFinancials)
			financials.POST("/normalize", handler.NormalizeFinancials)
			financials.POST("/summary", handler.SummarizeFinancials)
			financials.GET("/summary", handler.StoredFinancialSummary)
			financials.GET("/classify", handler.ClassifyFinancial)
		}

		certificates := v1.Group("/certificates")
		{
			certificates.GET("/:code", handler.ParseCertificate)
			certificates.POST("/resolve", handler.ResolveCertificates)
			certificates.POST("/suggest", handler.SuggestCertificate)
		}

		fve := v1.Group("/fve")
		{
			fve.POST("/totals", handler.ComputeTotals)
			fve.POST("/links", handler.LinkCruise)
			fve.GET("/links", handler.ListLinks)
			fve.GET("/links.csv", handler.ExportLinks)
			fve.GET("/links/:cruiseId", handler.GetLink)
			fve.PUT("/links/:cruiseId", handler.SaveEvaluation)
			fve.GET("/events", handler.StreamFveEvents)
		}

		loyalty := v1.Group("/loyalty")
		{
			loyalty.POST("/progress", handler.LoyaltyProgress)
			loyalty.GET("/progress", handler.StoredLoyaltyProgress)
			loyalty.GET("/tiers/:program", handler.TierProgress)
		}

		estimates := v1.Group("/estimates")
		{
			estimates.POST("/retail", handler.EstimateRetail)
			estimates.POST("/cruise", handler.EstimateCruise)
		}

		scrape := v1.Group("/scrape")
		{
			scrape.POST("/extract", handler.ExtractOffers)
			scrape.GET("/offers.csv", handler.ExportScrapedOffers)
			scrape.GET("/cruises.csv", handler.ExportScrapedCruises)
		}

		v1.GET("/intelligence/context", handler.ContextIntelligence)
	}

	return router
}
