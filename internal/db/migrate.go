package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"kletos/internal/model"
)

// models lists every table, parents first.
var models = []interface{}{
	&model.Account{},
	&model.MerchantProfile{},
	&model.Product{},
}

// Migrate creates or updates all tables and their unique indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table, children first. Missing tables are logged and skipped.
func Reset(db *gorm.DB) {
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			logrus.WithError(err).Warn("failed to drop table (may not exist)")
		}
	}
	logrus.Info("tables dropped")
}
