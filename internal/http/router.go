package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/callsight/backend/internal/ai"
	"github.com/callsight/backend/internal/config"
	"github.com/callsight/backend/internal/http/handlers"
	"github.com/callsight/backend/internal/http/middleware"
	"github.com/callsight/backend/internal/service"
	"github.com/callsight/backend/internal/store"

	_ "github.com/callsight/backend/docs"
)

func Router(cfg config.Config, st store.Store, completer ai.Completer, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     st,
		Analyzer:  &service.AnalyzeService{Store: st, AI: completer, Logger: logger},
		Validator: validator.New(),
		Logger:    logger,
		UploadDir: cfg.UploadDir,
	}

	r.GET("/", h.Dashboard)
	r.GET("/healthz", h.Healthz)
	r.POST("/upload", h.Upload)

	api := r.Group("/api")
	{
		api.GET("/calls", h.CallsList)
		api.GET("/calls/:id", h.CallDetails)
		api.POST("/calls/analyze", h.AnalyzeCall)
		api.GET("/state", h.State)
		api.GET("/scripts", h.ScriptsList)
		api.PUT("/scripts/:id", h.ScriptUpdate)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
