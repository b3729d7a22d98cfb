package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"policy-log-analytics/config"
	"policy-log-analytics/internal/model"
)

// NewDB opens the MySQL metadata database and migrates the analysis run
// table.
func NewDB(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MySQL")
		return nil, err
	}

	if err := db.AutoMigrate(&model.AnalysisRun{}); err != nil {
		log.Error().Err(err).Msg("Failed to migrate analysis run table")
		return nil, err
	}
	log.Info().Msg("MySQL connection established and schema migrated")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			log.Info().Msg("Closing MySQL connection...")
			return sqlDB.Close()
		},
	})
	return db, nil
}
