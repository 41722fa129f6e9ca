package main

import (
	"context"
	"fmt"
	"time"

	common_api "studentz/internal/common/api"
	"studentz/internal/config"
	"studentz/internal/database"
	"studentz/internal/features/feed"
	"studentz/internal/features/member"
	"studentz/internal/features/report"
	"studentz/internal/features/system"
	"studentz/internal/logger"
	"studentz/internal/middleware"
	"studentz/pkg/ident"

	_ "studentz/docs" // Import swagger docs

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimitBytes(),
		ErrorHandler:          middleware.ErrorHandler(log),
	})

	if cfg.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}
	app.Use(recover.New())
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.CORSMiddleware(cfg))

	return app
}

// InitSentry enables error reporting when a DSN is configured.
func InitSentry(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) {
	if cfg.SentryDSN == "" {
		return
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	}); err != nil {
		log.Error("sentry init failed", zap.Error(err))
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		},
	})
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	log.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("Setting up route", zap.String("type", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger, shutdowner fx.Shutdowner, hub *feed.Hub) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				log.Info("Server listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Error("Server failed to start", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hub.Close()
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, reportRepo report.ReportRepository, memberRepo member.MemberRepository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// The unique identifier indexes must exist before the first insert
			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			if err := reportRepo.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("ensure report indexes: %w", err)
			}
			if err := memberRepo.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("ensure member indexes: %w", err)
			}
			log.Info("Indexes ensured")
			return nil
		},
	})
}

// @title           Studentz API
// @version         1.0
// @description     Problem reports and community membership registrations.

// @host            localhost:4000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Shared building blocks
			ident.New,
			feed.NewHub,
			func(h *feed.Hub) feed.Publisher { return h },

			// Initialize Repository
			report.NewReportRepository,
			member.NewMemberRepository,

			// Initialize Service
			report.NewReportService,
			member.NewMemberService,

			// Initialize Controller
			report.NewReportController,
			member.NewMemberController,
			feed.NewFeedController,

			// Initialize API Routes
			AsRoute(system.NewHealthApi),
			AsRoute(report.NewReportApi),
			AsRoute(member.NewMemberApi),
			AsRoute(feed.NewFeedApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			InitSentry,
			logger.StartDBWriter,
			InitializeIndexes,
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
		),
	)

	app.Run()
}
