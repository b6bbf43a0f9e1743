package db

import (
	"fmt"

	"operateurs-bio-api/config"
	"operateurs-bio-api/internal/logs"
	"operateurs-bio-api/internal/operator"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to the configured store and migrates the schema. The
// default is a file-backed sqlite database; postgres is selected with
// DB_DRIVER=postgres. TranslateError makes key violations surface as
// gorm.ErrDuplicatedKey on both drivers.
func Open(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "", "sqlite":
		dialector = sqlite.Open(cfg.DBPath)
	case "postgres":
		dsn := "host=" + cfg.DBHost +
			" user=" + cfg.DBUser +
			" password=" + cfg.DBPassword +
			" dbname=" + cfg.DBName +
			" port=" + cfg.DBPort +
			" sslmode=disable"
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("DB_DRIVER inconnu: %q", cfg.DBDriver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := gdb.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}

	if err := gdb.AutoMigrate(&operator.Operator{}, &logs.SystemLog{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	return gdb, nil
}
