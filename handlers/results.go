package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/results"
)

func GetResults(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		respondError(c, err)
		return
	}
	perPage, err := queryInt(c, "per_page", results.DefaultPerPage)
	if err != nil {
		respondError(c, err)
		return
	}
	year, err := queryInt(c, "periodo", 0)
	if err != nil {
		respondError(c, err)
		return
	}

	q := results.Query{
		Page:          page,
		PerPage:       perPage,
		Country:       c.Query("pais"),
		Year:          year,
		Sector:        c.Query("sector"),
		CompanySize:   c.Query("tamano_empresa"),
		Province:      c.Query("provincia"),
		IndicatorName: c.Query("nombre_indicador"),
	}

	var rows []results.Row
	err = inTx(c, func(ctx context.Context, tx *gorm.DB) error {
		rows, err = results.List(ctx, tx, q)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
