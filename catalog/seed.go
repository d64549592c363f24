package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/logging"
	"github.com/VLP-TECH/camara-vlc/models"
)

// Seed inserts the catalog in a single transaction. It does nothing and
// reports false when the store already holds dimensions.
func Seed(ctx context.Context, db *gorm.DB, c *Catalog) (bool, error) {
	for _, w := range c.Warnings() {
		logging.Logger.Warn("catalog warning", zap.String("version", c.Version), zap.String("warning", w))
	}

	seeded := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Dimension{}).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			logging.Logger.Info("catalog already seeded, skipping", zap.Int64("dimensions", existing))
			return nil
		}

		dims := c.Models()
		if err := tx.Create(&dims).Error; err != nil {
			return fmt.Errorf("insert catalog: %w", err)
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if seeded {
		logging.Logger.Info("catalog seeded", zap.String("version", c.Version), zap.Int("dimensions", len(c.Dimensions)))
	}
	return seeded, nil
}
