package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/database"
	"github.com/VLP-TECH/camara-vlc/identity"
	"github.com/VLP-TECH/camara-vlc/models"
)

// GetStats summarizes what the store holds.
func GetStats(c *gin.Context) {
	var (
		total      int64
		unresolved int64
		countries  int64
		dimensions int64
		indicators []string
		latest     *int
	)

	err := inTx(c, func(ctx context.Context, tx *gorm.DB) error {
		if err := tx.Model(&models.Result{}).Count(&total).Error; err != nil {
			return err
		}

		// Results no provenance path resolves
		if err := identity.Results(ctx, tx).Where(identity.ResolvedName + " IS NULL").Count(&unresolved).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Result{}).Where("pais IS NOT NULL").Distinct("pais").Count(&countries).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Dimension{}).Count(&dimensions).Error; err != nil {
			return err
		}

		var err error
		if indicators, err = identity.AvailableNames(ctx, tx); err != nil {
			return err
		}

		return tx.Table(identity.ResultTable).Select("MAX(" + identity.YearExpr(tx) + ")").Row().Scan(&latest)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	stats := gin.H{
		"total_resultados":         total,
		"resultados_sin_indicador": unresolved,
		"indicadores_con_datos":    len(indicators),
		"paises":                   countries,
		"dimensiones":              dimensions,
		"ultimo_periodo":           latest,
	}

	c.JSON(http.StatusOK, stats)
}

// Health reports whether the store answers.
func Health(c *gin.Context) {
	sqlDB, err := database.GetDB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
