package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

// Headline planetary indicators shown on every dashboard. Sourced from
// published observatory data; refreshed with releases, not per request.
var globalMetrics = map[string]float64{
	"co2_level_ppm":         421.5,
	"global_temp_anomaly_c": 1.2,
	"sea_level_rise_mm_yr":  3.4,
	"arctic_ice_extent_mkm": 4.2,
}

const dashboardWindow = 7 * 24 * time.Hour

type DashboardMetrics struct {
	GlobalMetrics  map[string]float64 `json:"global_metrics"`
	WeatherRecords int64              `json:"weather_records_7d"`
	EmissionRows   int64              `json:"emission_records_7d"`
	JobsSubmitted  int64              `json:"jobs_submitted_7d"`
	AuditEntries   int64              `json:"audit_entries_7d"`
	ActiveAlerts   int64              `json:"active_alerts"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

type DashboardService interface {
	Metrics(ctx context.Context) (*DashboardMetrics, error)
	Alerts(ctx context.Context) ([]*types.WeatherAlert, error)
}

type dashboardService struct {
	log          *logger.Logger
	weatherRepo  repos.WeatherRepo
	emissionRepo repos.EmissionRepo
	jobRepo      repos.JobRepo
	auditRepo    repos.AuditRepo
}

func NewDashboardService(
	log *logger.Logger,
	weatherRepo repos.WeatherRepo,
	emissionRepo repos.EmissionRepo,
	jobRepo repos.JobRepo,
	auditRepo repos.AuditRepo,
) DashboardService {
	return &dashboardService{
		log:          log.With("service", "DashboardService"),
		weatherRepo:  weatherRepo,
		emissionRepo: emissionRepo,
		jobRepo:      jobRepo,
		auditRepo:    auditRepo,
	}
}

// Metrics fans the four counters out concurrently; the dashboard is the
// hottest read path.
func (ds *dashboardService) Metrics(ctx context.Context) (*DashboardMetrics, error) {
	since := time.Now().UTC().Add(-dashboardWindow)
	metrics := &DashboardMetrics{
		GlobalMetrics: globalMetrics,
		GeneratedAt:   time.Now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := ds.weatherRepo.CountRecordsSince(gctx, nil, since)
		metrics.WeatherRecords = n
		return err
	})
	g.Go(func() error {
		n, err := ds.emissionRepo.CountSince(gctx, nil, since)
		metrics.EmissionRows = n
		return err
	})
	g.Go(func() error {
		n, err := ds.jobRepo.CountSince(gctx, nil, since)
		metrics.JobsSubmitted = n
		return err
	})
	g.Go(func() error {
		n, err := ds.auditRepo.CountSince(gctx, nil, since)
		metrics.AuditEntries = n
		return err
	})
	g.Go(func() error {
		alerts, err := ds.weatherRepo.ListActiveAlerts(gctx, nil)
		metrics.ActiveAlerts = int64(len(alerts))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apierror.Internal("collect dashboard metrics", err)
	}
	return metrics, nil
}

func (ds *dashboardService) Alerts(ctx context.Context) ([]*types.WeatherAlert, error) {
	alerts, err := ds.weatherRepo.ListActiveAlerts(ctx, nil)
	if err != nil {
		return nil, apierror.Internal("list alerts", err)
	}
	return alerts, nil
}
