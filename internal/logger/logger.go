package logger

import (
	"context"

	"studentz/internal/config"
	"studentz/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logCollection = "server_logs"

// NewLogger builds the application logger. When LogToDB is set, warn and
// error entries are also queued for the DB writer started by StartDBWriter.
func NewLogger(cfg *config.Config) (*zap.Logger, *DBLogWriter, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, nil, err
	}

	dbWriter := NewDBLogWriter(cfg.AppId)
	if !cfg.LogToDB {
		return baseLogger, dbWriter, nil
	}

	// Tee core: console plus DB
	finalCore := NewDBCore(baseLogger.Core(), dbWriter, zapcore.WarnLevel)
	return zap.New(finalCore, zap.AddCaller()), dbWriter, nil
}

// StartDBWriter attaches the writer to its collection once the database is up
// and drains it on shutdown.
func StartDBWriter(lc fx.Lifecycle, writer *DBLogWriter, mongodb *database.MongodbDB, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.LogToDB {
				writer.Start(mongodb.DB.Collection(logCollection))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return writer.Close(ctx)
		},
	})
}
