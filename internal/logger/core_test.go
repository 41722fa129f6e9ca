package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func drain(w *DBLogWriter) []LogEntry {
	var out []LogEntry
	for {
		select {
		case e, ok := <-w.logChan:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestDBCoreMirrorsWarnAndAbove(t *testing.T) {
	base, observed := observer.New(zapcore.DebugLevel)
	writer := NewDBLogWriter("test")
	log := zap.New(NewDBCore(base, writer, zapcore.WarnLevel))

	log.Info("stored report")
	log.With(zap.String("request_id", "req-1")).Error("insert failed",
		zap.String("path", "/api/reports"),
		zap.Error(errors.New("boom")),
	)

	assert.Equal(t, 2, observed.Len(), "console core still sees every entry")

	entries := drain(writer)
	require.Len(t, entries, 1)
	assert.Equal(t, "insert failed", entries[0].Message)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, "/api/reports", entries[0].Path)
	assert.Equal(t, "boom", entries[0].Error)
}

func TestDBLogWriterDropsAfterClose(t *testing.T) {
	writer := NewDBLogWriter("test")
	require.NoError(t, writer.Close(context.Background()))

	writer.AddLog(LogEntry{Message: "late"})
	assert.Empty(t, drain(writer))
}

func TestToRecord(t *testing.T) {
	writer := NewDBLogWriter("studentz")
	rec := writer.toRecord(LogEntry{Level: zapcore.ErrorLevel, Message: "x", RequestID: "r"})

	assert.Equal(t, "error", rec.Level)
	assert.Equal(t, 40, rec.LogLevelId)
	assert.Equal(t, "studentz", rec.AppId)
	assert.Equal(t, "r", rec.RequestID)
	assert.False(t, rec.CreatedOnUtc.IsZero())
}
