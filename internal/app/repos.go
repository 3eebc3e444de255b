package app

import (
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/repos"
)

type Repos struct {
	User     repos.UserRepo
	Company  repos.CompanyRepo
	Emission repos.EmissionRepo
	City     repos.CityRepo
	Scenario repos.ScenarioRepo
	Weather  repos.WeatherRepo
	Insight  repos.InsightRepo
	Job      repos.JobRepo
	Audit    repos.AuditRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Company:  repos.NewCompanyRepo(db, log),
		Emission: repos.NewEmissionRepo(db, log),
		City:     repos.NewCityRepo(db, log),
		Scenario: repos.NewScenarioRepo(db, log),
		Weather:  repos.NewWeatherRepo(db, log),
		Insight:  repos.NewInsightRepo(db, log),
		Job:      repos.NewJobRepo(db, log),
		Audit:    repos.NewAuditRepo(db, log),
	}
}
