package mysql

import (
	"fmt"

	"storefront/internal/config"
	"storefront/internal/domain"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// NewMySQL opens the database and migrates every table the service owns.
func NewMySQL(cfg config.MySQLConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql %s:%s/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
	}

	if err := db.AutoMigrate(
		&domain.Order{},
		&domain.Deal{},
		&domain.Product{},
		&domain.User{},
		&domain.CartItem{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if logger != nil {
		logger.Info("mysql connected", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	}
	return db, nil
}
