package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/flexprice/stripe-migrate/internal/config"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/fluent/fluent-logger-golang/fluent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const fluentdTag = "stripe_migrate.logs"

// Logger wraps zap.SugaredLogger and mirrors every entry to fluentd when a
// forwarder is configured. The printf methods make it usable as stripe-go's
// LeveledLogger.
type Logger struct {
	*zap.SugaredLogger
	forwarder *fluent.Fluent
	service   string
	// fields added through With and WithContext, kept for the forwarder
	fields []interface{}
}

var defaultLogger *Logger

// NewLogger builds a production zap logger, or a development one at debug
// level, plus the optional fluentd forwarder.
func NewLogger(cfg *config.Configuration) (*Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Logging.Level == "debug" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.DisableStacktrace = true

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	sugar := zapLogger.Sugar()

	return &Logger{
		SugaredLogger: sugar,
		forwarder:     newForwarder(cfg.Logging, sugar),
		service:       "stripe-migrate-" + cfg.Deployment.Mode,
	}, nil
}

// newForwarder returns nil when fluentd is disabled or unreachable; logging
// then goes to stdout only.
func newForwarder(cfg config.LoggingConfig, sugar *zap.SugaredLogger) *fluent.Fluent {
	if !cfg.FluentdEnabled {
		return nil
	}
	if cfg.FluentdHost == "" || cfg.FluentdPort <= 0 {
		sugar.Warnw("fluentd enabled without host and port, logging to stdout only")
		return nil
	}

	f, err := fluent.New(fluent.Config{
		FluentHost:   cfg.FluentdHost,
		FluentPort:   cfg.FluentdPort,
		Async:        true,
		BufferLimit:  8 * 1024 * 1024,
		WriteTimeout: 3 * time.Second,
		RetryWait:    500,
		MaxRetry:     5,
	})
	if err != nil {
		sugar.Warnw("failed to connect to fluentd, logging to stdout only", "error", err)
		return nil
	}
	sugar.Infow("forwarding logs to fluentd", "host", cfg.FluentdHost, "port", cfg.FluentdPort)
	return f
}

// GetLogger returns a stdout logger with default settings. Entry points use it
// before configuration has been loaded; everything else receives its logger
// through ServiceParams.
func GetLogger() *Logger {
	if defaultLogger == nil {
		defaultLogger, _ = NewLogger(config.GetDefaultConfig())
	}
	return defaultLogger
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	fields := make([]interface{}, 0, len(l.fields)+len(keysAndValues))
	fields = append(fields, l.fields...)
	fields = append(fields, keysAndValues...)
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(keysAndValues...),
		forwarder:     l.forwarder,
		service:       l.service,
		fields:        fields,
	}
}

// WithContext adds the run id and, inside an account scope, the account.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	kv := []interface{}{"run_id", types.GetRunID(ctx)}
	if account := types.GetAccount(ctx); account != "" {
		kv = append(kv, "account", account.String())
	}
	return l.With(kv...)
}

func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, keysAndValues...)
	l.forward("debug", msg, keysAndValues)
}

func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, keysAndValues...)
	l.forward("info", msg, keysAndValues)
}

func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, keysAndValues...)
	l.forward("warning", msg, keysAndValues)
}

func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)
	l.forward("error", msg, keysAndValues)
}

// Debugf, Infof, Warnf and Errorf carry stripe-go's request logging.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.SugaredLogger.Debugf(format, args...)
	l.forward("debug", fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.SugaredLogger.Infof(format, args...)
	l.forward("info", fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.SugaredLogger.Warnf(format, args...)
	l.forward("warning", fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.SugaredLogger.Errorf(format, args...)
	l.forward("error", fmt.Sprintf(format, args...), nil)
}

func (l *Logger) forward(level, msg string, keysAndValues []interface{}) {
	if l.forwarder == nil {
		return
	}

	record := map[string]interface{}{
		"level":     level,
		"message":   msg,
		"service":   l.service,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	addPairs(record, l.fields)
	addPairs(record, keysAndValues)

	if err := l.forwarder.Post(fluentdTag, record); err != nil {
		l.SugaredLogger.Warnw("failed to forward log to fluentd", "error", err)
	}
}

// addPairs copies alternating key/value pairs into record. Non-string keys
// and a trailing key without value are dropped.
func addPairs(record map[string]interface{}, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr {
			record[key] = err.Error()
			continue
		}
		record[key] = keysAndValues[i+1]
	}
}

// Close flushes zap and the fluentd forwarder.
func (l *Logger) Close() error {
	_ = l.SugaredLogger.Sync()
	if l.forwarder != nil {
		return l.forwarder.Close()
	}
	return nil
}
