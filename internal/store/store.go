package store

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"kletos/internal/config"
	"kletos/internal/db"
	"kletos/internal/repository"
)

// Stores holds the repositories for the configured driver.
type Stores struct {
	Accounts repository.AccountRepository
	Products repository.ProductRepository

	gormDB *gorm.DB
}

// Open builds the repositories selected by cfg.StoreDriver. For MySQL it
// connects, optionally drops all tables, and migrates the schema.
func Open(cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logrus.Warn("using in-memory store; data is lost on restart")
		return &Stores{
			Accounts: repository.NewMemoryAccountRepository(),
			Products: repository.NewMemoryProductRepository(),
		}, nil

	case config.StoreMySQL:
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		if cfg.ResetDB {
			logrus.Warn("RESET_DB=true detected, dropping all tables")
			db.Reset(gormDB)
		}
		if err := db.Migrate(gormDB); err != nil {
			return nil, err
		}
		return &Stores{
			Accounts: repository.NewAccountRepository(gormDB),
			Products: repository.NewProductRepository(gormDB),
			gormDB:   gormDB,
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// Close releases the database connection pool, if any.
func (s *Stores) Close() error {
	if s.gormDB == nil {
		return nil
	}
	sqlDB, err := s.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
