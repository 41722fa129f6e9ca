package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	common_models "studentz/internal/common/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	RequestID string
	Path      string
	IpAddress string
	Error     string
	Caller    string // Function name
}

// DBLogWriter buffers entries and inserts them asynchronously once started.
type DBLogWriter struct {
	logChan chan LogEntry
	appId   string

	mu      sync.Mutex
	closed  bool
	started bool
	done    chan struct{}
}

// NewDBLogWriter creates the buffered writer. Entries are queued until Start.
func NewDBLogWriter(appId string) *DBLogWriter {
	return &DBLogWriter{
		logChan: make(chan LogEntry, 1000), // Buffer 1000 logs
		appId:   appId,
		done:    make(chan struct{}),
	}
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop log rather than block the request path
		fmt.Fprintln(os.Stderr, "DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Start launches the background worker writing into coll.
func (w *DBLogWriter) Start(coll *mongo.Collection) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return
	}
	w.started = true
	go w.processLogs(coll)
}

// Close stops accepting entries and waits for the queue to drain or ctx to end.
func (w *DBLogWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.logChan)
	started := w.started
	w.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *DBLogWriter) processLogs(coll *mongo.Collection) {
	defer close(w.done)
	for entry := range w.logChan {
		logRecord := w.toRecord(entry)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Insert errors are ignored so logging never takes the API down
		_, _ = coll.InsertOne(ctx, logRecord)
		cancel()
	}
}

func (w *DBLogWriter) toRecord(entry LogEntry) common_models.Log {
	return common_models.Log{
		Level:        entry.Level.String(),
		LogLevelId:   mapLevelToInt(entry.Level),
		Message:      entry.Message,
		RequestID:    entry.RequestID,
		Path:         entry.Path,
		IpAddress:    entry.IpAddress,
		Error:        entry.Error,
		Caller:       entry.Caller,
		AppId:        w.appId,
		CreatedOnUtc: time.Now().UTC(),
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
