package report

import (
	"context"
	"fmt"
	"time"

	common_models "studentz/internal/common/models"
	"studentz/internal/features/feed"
	"studentz/pkg/ident"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportService interface {
	CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error)
	ListReports(ctx context.Context, limit int64) ([]Report, error)
}

type ReportServiceImpl struct {
	ReportRepo ReportRepository
	IDs        *ident.Generator
	Feed       feed.Publisher
}

func NewReportService(reportRepo ReportRepository, ids *ident.Generator, publisher feed.Publisher) ReportService {
	return &ReportServiceImpl{
		ReportRepo: reportRepo,
		IDs:        ids,
		Feed:       publisher,
	}
}

// CreateReport assigns the reference ID and stores the report. A duplicate
// reference ID is returned as store.ErrDuplicateIdentifier; no retry is made.
func (s *ReportServiceImpl) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	refID, err := s.IDs.ReportID()
	if err != nil {
		return nil, fmt.Errorf("generate reference id: %w", err)
	}

	now := time.Now().UTC()
	report := &Report{
		ID:          primitive.NewObjectID(),
		ReferenceID: refID,
		Name:        req.Name,
		College:     req.College,
		Email:       req.Email,
		Category:    req.Category,
		Details:     req.Details,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.ReportRepo.Insert(ctx, report); err != nil {
		return nil, err
	}

	if s.Feed != nil {
		s.Feed.Publish(common_models.FeedEvent{
			Type:      common_models.FeedReportCreated,
			ID:        report.ReferenceID,
			CreatedAt: report.CreatedAt,
		})
	}
	return report, nil
}

func (s *ReportServiceImpl) ListReports(ctx context.Context, limit int64) ([]Report, error) {
	return s.ReportRepo.List(ctx, min(limit, MaxListLimit))
}
