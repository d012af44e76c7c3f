package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	logsDir      string
	console      io.Writer
	consoleLevel zapcore.Level
	now          func() time.Time
}

// Option customises InitLogger
type Option func(*options)

// WithLogsDir writes the log file under dir instead of ./logs
func WithLogsDir(dir string) Option {
	return func(o *options) { o.logsDir = dir }
}

// WithConsole sends console output to w instead of stdout
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithConsoleLevel sets the minimum level printed to the console.
// The file always receives Debug and above.
func WithConsoleLevel(level zapcore.Level) Option {
	return func(o *options) { o.consoleLevel = level }
}

// InitLogger initializes a zap logger with console and file outputs
// env is used to prefix the log file name
func InitLogger(env string, opts ...Option) (*zap.Logger, error) {
	o := options{
		logsDir:      "logs",
		console:      os.Stdout,
		consoleLevel: zapcore.InfoLevel,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(o.logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := os.OpenFile(LogFileName(o.logsDir, env, o.now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Console: coloured and human-readable
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	// File: JSON
	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(o.console), o.consoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// LogFileName returns the path of the log file for env started at t
func LogFileName(dir, env string, t time.Time) string {
	if env == "" {
		env = "default"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", env, t.Format("2006-01-02_15-04-05")))
}
