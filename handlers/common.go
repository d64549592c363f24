package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/database"
	"github.com/VLP-TECH/camara-vlc/results"
	"github.com/VLP-TECH/camara-vlc/scoring"
)

const noDataMessage = "No hay datos suficientes para calcular el score"

// errBadParam marks query parameters that are present but malformed.
var errBadParam = errors.New("invalid query parameter")

// inTx runs fn inside one transaction on the request context, so every read
// of a request sees the same snapshot.
func inTx(c *gin.Context, fn func(ctx context.Context, tx *gorm.DB) error) error {
	ctx := c.Request.Context()
	return database.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
}

// queryInt reads an optional integer parameter.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errBadParam, name, raw)
	}
	return n, nil
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scoring.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": noDataMessage})
	case errors.Is(err, errBadParam):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scoring.ErrIncompleteSelection), errors.Is(err, results.ErrInvalidPage):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
