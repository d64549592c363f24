package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/VLP-TECH/camara-vlc/config"
	"github.com/VLP-TECH/camara-vlc/logging"
	"github.com/VLP-TECH/camara-vlc/metrics"
)

// NewRouter wires the read API, health and metrics endpoints.
func NewRouter(cfg config.ServerConfig) *gin.Engine {
	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(), metrics.Middleware())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 || contains(cfg.CORSOrigins, "*") {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", Health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	{
		api.GET("/resultados", GetResults)
		api.POST("/brainnova-score", CalculateScore)
		api.GET("/indicadores-disponibles", GetAvailableIndicators)
		api.GET("/filtros-disponibles", GetAvailableFilters)
		api.GET("/filtros-globales", GetGlobalFilters)
		api.GET("/estadisticas", GetStats)
	}
	return r
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
