// Package logger wraps zap behind a small key/value interface used by every
// component of the extraction pipeline.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface defines the logger interface.
type Interface interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	Fatal(msg string, fields ...any)
	With(fields ...any) Interface
	// Structured logging helpers
	WithDuration(duration time.Duration) Interface
	WithError(err error) Interface
	WithComponent(component string) Interface
	WithMarketplace(marketplace string) Interface
	WithURL(url string) Interface
	// Sync flushes buffered entries.
	Sync() error
}

// Logger implements the Interface.
type Logger struct {
	zapLogger *zap.Logger
}

var logLevels = map[Level]zapcore.Level{
	DebugLevel: zapcore.DebugLevel,
	InfoLevel:  zapcore.InfoLevel,
	WarnLevel:  zapcore.WarnLevel,
	ErrorLevel: zapcore.ErrorLevel,
	FatalLevel: zapcore.FatalLevel,
}

const (
	keyDuration    = "duration"
	keyError       = "error"
	keyComponent   = "component"
	keyMarketplace = "marketplace"
	keyURL         = "url"
)

// New creates a logger from config. A nil config yields an info-level
// console logger on stderr.
func New(config *Config) (Interface, error) {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	if cfg.Level == "" {
		cfg.Level = DefaultLevel
	}
	if cfg.Encoding == "" {
		cfg.Encoding = DefaultEncoding
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}

	level, ok := logLevels[Level(strings.ToLower(string(cfg.Level)))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLevel, cfg.Level)
	}

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig(cfg))
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig(cfg))
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, cfg.Encoding)
	}

	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(sink), level)
	return &Logger{zapLogger: zap.New(core, opts...)}, nil
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(z *zap.Logger) Interface {
	return &Logger{zapLogger: z}
}

func encoderConfig(cfg Config) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder

	if cfg.Development {
		if cfg.EnableColor {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		ec.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("15:04:05.000"))
		}
		ec.ConsoleSeparator = " | "
	}
	return ec
}

// openSink resolves "stdout", "stderr" or a file path. Files are appended to.
func openSink(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return nil, fmt.Errorf("open log output: %w", err)
	}
	return f, nil
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...any) {
	l.zapLogger.Debug(msg, l.fields(fields)...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...any) {
	l.zapLogger.Info(msg, l.fields(fields)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...any) {
	l.zapLogger.Warn(msg, l.fields(fields)...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...any) {
	l.zapLogger.Error(msg, l.fields(fields)...)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(msg string, fields ...any) {
	l.zapLogger.Fatal(msg, l.fields(fields)...)
}

// With creates a new logger with the given fields.
func (l *Logger) With(fields ...any) Interface {
	return &Logger{zapLogger: l.zapLogger.With(l.fields(fields)...)}
}

// WithDuration adds a duration to the logger.
func (l *Logger) WithDuration(duration time.Duration) Interface {
	return l.With(keyDuration, duration)
}

// WithError adds an error to the logger.
func (l *Logger) WithError(err error) Interface {
	return l.With(keyError, err)
}

// WithComponent adds a component name to the logger.
func (l *Logger) WithComponent(component string) Interface {
	return l.With(keyComponent, component)
}

// WithMarketplace adds a marketplace tag to the logger.
func (l *Logger) WithMarketplace(marketplace string) Interface {
	return l.With(keyMarketplace, marketplace)
}

// WithURL adds a page URL to the logger.
func (l *Logger) WithURL(url string) Interface {
	return l.With(keyURL, url)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// fields converts key/value pairs and reports malformed input on the same logger.
func (l *Logger) fields(kv []any) []zap.Field {
	out, bad := toZapFields(kv)
	for _, b := range bad {
		l.zapLogger.WithOptions(zap.AddCallerSkip(1)).Warn("Malformed log field",
			zap.String("field", b),
			zap.Error(ErrInvalidFields),
		)
	}
	return out
}

// toZapFields pairs string keys with the value that follows them. zap.Field
// values pass through. It returns descriptions of entries it had to drop.
func toZapFields(kv []any) (fields []zap.Field, dropped []string) {
	if len(kv) == 0 {
		return nil, nil
	}

	fields = make([]zap.Field, 0, len(kv))
	for i := 0; i < len(kv); i++ {
		switch field := kv[i].(type) {
		case zap.Field:
			fields = append(fields, field)
		case string:
			if i+1 >= len(kv) {
				dropped = append(dropped, "missing value for "+field)
				continue
			}
			fields = append(fields, zap.Any(field, kv[i+1]))
			i++
		default:
			dropped = append(dropped, fmt.Sprintf("key of type %T", field))
		}
	}
	return fields, dropped
}
