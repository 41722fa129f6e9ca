// Command seed inserts a few demo reports and members through the same
// services the API uses, then exits.
package main

import (
	"context"
	"errors"
	"time"

	common_models "studentz/internal/common/models"
	"studentz/internal/config"
	"studentz/internal/database"
	"studentz/internal/features/feed"
	"studentz/internal/features/member"
	"studentz/internal/features/report"
	"studentz/internal/logger"
	"studentz/internal/store"
	"studentz/pkg/ident"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var demoReports = []report.CreateReportRequest{
	{Name: "Asha Rao", College: "RV College of Engineering", Category: "Campus Facilities", Details: "Drinking water dispensers on the second floor have been dry for a week."},
	{Name: "Imran Khan", College: "Christ University", Email: "imran@example.com", Category: "Finance/Fees", Details: "Exam fee receipt not generated after online payment."},
	{Name: "Meera N", College: "BMS College of Engineering", Category: "Academic", Details: "Internal marks for semester 5 not published yet."},
}

var demoMembers = []member.CreateMemberRequest{
	{Name: "Ravi Kumar", College: "PES University", Email: "ravi@example.com", WhatsApp: "9876543210"},
	{Name: "Divya S", College: "St. Joseph's College", Email: "divya@example.com", WhatsApp: "8123456789"},
}

// nopPublisher drops feed events; nobody is subscribed during seeding.
type nopPublisher struct{}

func (nopPublisher) Publish(common_models.FeedEvent) {}

func Seed(lc fx.Lifecycle, shutdowner fx.Shutdowner, reports report.ReportService, members member.MemberService,
	reportRepo report.ReportRepository, memberRepo member.MemberRepository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			if err := reportRepo.EnsureIndexes(ctx); err != nil {
				return err
			}
			if err := memberRepo.EnsureIndexes(ctx); err != nil {
				return err
			}

			for _, req := range demoReports {
				r, err := reports.CreateReport(ctx, req)
				if err != nil {
					if errors.Is(err, store.ErrDuplicateIdentifier) {
						log.Warn("Skipped report with duplicate reference", zap.String("name", req.Name))
						continue
					}
					return err
				}
				log.Info("Seeded report", zap.String("referenceId", r.ReferenceID))
			}
			for _, req := range demoMembers {
				m, err := members.CreateMember(ctx, req)
				if err != nil {
					if errors.Is(err, store.ErrDuplicateIdentifier) {
						log.Warn("Skipped member with duplicate ID", zap.String("name", req.Name))
						continue
					}
					return err
				}
				log.Info("Seeded member", zap.String("memberId", m.MemberID))
			}

			return shutdowner.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			ident.New,
			func() feed.Publisher { return nopPublisher{} },
			report.NewReportRepository,
			member.NewMemberRepository,
			report.NewReportService,
			member.NewMemberService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(logger.StartDBWriter, Seed),
	)

	app.Run()
}
