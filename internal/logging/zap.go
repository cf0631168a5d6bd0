package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level, encoding and destination of the zap logger.
type Options struct {
	Level string
	Dev   bool
	// File is a strftime pattern, e.g. "logs/client.%Y%m%d.log".
	// Empty means stderr.
	File string
}

type ZapLogger struct {
	l *zap.SugaredLogger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l.Sugar()}
}

// New builds a ZapLogger from opts. The returned closer flushes buffered
// entries and releases the log file, if any.
func New(opts Options) (*ZapLogger, func() error, error) {
	out, err := openWriter(opts.File)
	if err != nil {
		return nil, nil, err
	}

	var enc zapcore.Encoder
	if opts.Dev {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), levelFromString(opts.Level))
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))

	closer := func() error {
		_ = l.Sync()
		if c, ok := out.(io.Closer); ok && out != os.Stderr {
			return c.Close()
		}
		return nil
	}
	return NewZapLogger(l), closer, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *ZapLogger {
	return NewZapLogger(zap.NewNop())
}

func openWriter(pattern string) (io.Writer, error) {
	if pattern == "" {
		return os.Stderr, nil
	}
	w, err := rotatelogs.New(pattern,
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("open log file %q: %w", pattern, err)
	}
	return w, nil
}

func levelFromString(l string) zapcore.Level {
	switch l {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *ZapLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.l.Debugw(msg, args...)
}

func (z *ZapLogger) Info(ctx context.Context, msg string, args ...any) {
	z.l.Infow(msg, args...)
}

func (z *ZapLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.l.Warnw(msg, args...)
}

func (z *ZapLogger) Error(ctx context.Context, msg string, args ...any) {
	z.l.Errorw(msg, args...)
}

func (z *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{l: z.l.With(args...)}
}
