package report

import (
	"studentz/internal/config"
	"studentz/internal/database"
	"studentz/internal/store"
)

type ReportRepository = store.Store[Report]

func NewReportRepository(db *database.MongodbDB, cfg *config.Config) ReportRepository {
	return store.NewMongoStore[Report](db.DB.Collection("reports"), "referenceId", cfg.StoreTimeout)
}
