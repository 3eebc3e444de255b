package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Nidish2/Climate-Platform/internal/platform/ctxutil"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
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
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func actorContext(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID:    userID,
		RequestID: uuid.NewString(),
	})
}

// noopRecommender satisfies Recommender for services under test that do not
// exercise insight generation.
type noopRecommender struct{}

func (noopRecommender) Recommend(ctx context.Context, domain types.InsightDomain, entityID uuid.UUID, rcontext map[string]float64) ([]*types.AIInsight, error) {
	return nil, nil
}
