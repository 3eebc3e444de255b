package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/Nidish2/Climate-Platform/internal/platform/envutil"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type Service struct {
	db       *gorm.DB
	log      *logger.Logger
	postgres bool
}

// New connects using DATABASE_URL. A postgres:// DSN selects the postgres
// driver; anything else (or nothing) falls back to a local sqlite file so the
// platform runs without infrastructure.
func New(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DatabaseService")

	dsn := envutil.GetEnv("DATABASE_URL", "", log)
	var dialector gorm.Dialector
	usePostgres := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
	switch {
	case usePostgres:
		dialector = postgres.Open(dsn)
	case dsn != "":
		dialector = sqlite.Open(dsn)
	default:
		dialector = sqlite.Open("climate_platform.db")
	}

	serviceLog.Info("Connecting to database...", "postgres", usePostgres)
	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &Service{db: database, log: serviceLog, postgres: usePostgres}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := s.db.AutoMigrate(
		&types.User{},
		&types.Company{},
		&types.CarbonEmissionRecord{},
		&types.City{},
		&types.UrbanScenario{},
		&types.WeatherRecord{},
		&types.WeatherAlert{},
		&types.AIInsight{},
		&types.ProcessingJob{},
		&types.AuditLogEntry{},
	); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
