package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	loggerKey ctxKey = "logger"
	// RequestID is the context key holding the id of the catalog request in flight
	RequestID ctxKey = "request_id"
)

// Config controls where and how much the builder logs
type Config struct {
	Level string `yaml:"LOG_LEVEL" env:"LOG_LEVEL" env-default:"WARN"`
	File  string `yaml:"LOG_FILE" env:"LOG_FILE" env-default:"playcraft.log"`
}

// Logger wraps a zap logger and adds ids found in the context to every entry
type Logger struct {
	l *zap.Logger
}

// New builds a JSON logger writing to cfg.File ("stderr" and "stdout" are
// accepted). Every entry carries a fresh session id.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	out := cfg.File
	if out == "" {
		out = "stderr"
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{out}
	zcfg.ErrorOutputPaths = []string{out}
	zcfg.DisableStacktrace = true

	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{l: l.With(zap.String("session_id", uuid.NewString()))}, nil
}

// Nop returns a Logger that discards everything
func Nop() *Logger {
	return &Logger{l: zap.NewNop()}
}

// NewFromZap wraps an existing zap logger
func NewFromZap(l *zap.Logger) *Logger {
	return &Logger{l: l}
}

// WithContext returns a context carrying l
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok && l != nil {
		return l
	}
	return Nop()
}

// WithRequestID returns a context tagged with a new request id
func WithRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, RequestID, id), id
}

func (l *Logger) fields(ctx context.Context, fields []zap.Field) []zap.Field {
	if id, ok := ctx.Value(RequestID).(string); ok {
		fields = append(fields, zap.String(string(RequestID), id))
	}
	return fields
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, l.fields(ctx, fields)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, l.fields(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, l.fields(ctx, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, l.fields(ctx, fields)...)
}

// RedirectStdLog sends output of the standard library's log package to l.
// The returned function restores the previous destination.
func (l *Logger) RedirectStdLog() func() {
	return zap.RedirectStdLog(l.l)
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.l.Sync()
}
