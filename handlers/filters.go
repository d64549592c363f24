package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/filters"
	"github.com/VLP-TECH/camara-vlc/identity"
)

// GetAvailableIndicators lists the indicator names that have results.
func GetAvailableIndicators(c *gin.Context) {
	var names []string
	err := inTx(c, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		names, err = identity.AvailableNames(ctx, tx)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// GetAvailableFilters returns every facet value, without cross-filtering.
func GetAvailableFilters(c *gin.Context) {
	var out *filters.Unfiltered
	err := inTx(c, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		out, err = filters.Unconditional(ctx, tx)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetGlobalFilters returns the facet values reachable from the current
// selection.
func GetGlobalFilters(c *gin.Context) {
	year, err := queryInt(c, "periodo", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	sel := filters.Selection{
		Country:       c.Query("pais"),
		Year:          year,
		Sector:        c.Query("sector"),
		CompanySize:   c.Query("tamano"),
		Province:      c.Query("provincia"),
		IndicatorName: c.Query("nombre_indicador"),
	}

	var out *filters.Facets
	err = inTx(c, func(ctx context.Context, tx *gorm.DB) error {
		out, err = filters.Available(ctx, tx, sel)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
