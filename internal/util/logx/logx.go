package logx

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var (
	mu       sync.Mutex
	buf      = make([]string, 0, 500)
	maxLines = 500
	// stderr stays quiet by default so the TUI is not clobbered; enable via ADMINGRID_LOG_STDERR=1
	toStderr = false

	atom   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger *zap.Logger
	sugar  *zap.SugaredLogger
)

func init() {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.ConsoleSeparator = " "
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), ringSink{}, atom)
	logger = zap.New(core)
	sugar = logger.Sugar()
}

// ringSink keeps the last maxLines encoded entries for the in-app log view.
type ringSink struct{}

func (ringSink) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	mu.Lock()
	defer mu.Unlock()
	if len(buf) >= maxLines {
		copy(buf[0:], buf[1:])
		buf = buf[:len(buf)-1]
	}
	buf = append(buf, line)
	if toStderr {
		_, _ = os.Stderr.Write(p)
	}
	return len(p), nil
}

func (ringSink) Sync() error { return nil }

func SetLevel(l Level) {
	switch l {
	case Debug:
		atom.SetLevel(zapcore.DebugLevel)
	case Warn:
		atom.SetLevel(zapcore.WarnLevel)
	case Error:
		atom.SetLevel(zapcore.ErrorLevel)
	default:
		atom.SetLevel(zapcore.InfoLevel)
	}
}

func SetLevelFromEnv() {
	lv := strings.ToLower(strings.TrimSpace(os.Getenv("ADMINGRID_LOG_LEVEL")))
	switch lv {
	case "debug":
		SetLevel(Debug)
	case "info":
		SetLevel(Info)
	case "warn", "warning":
		SetLevel(Warn)
	case "error":
		SetLevel(Error)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("ADMINGRID_LOG_STDERR"))); v != "" {
		mu.Lock()
		toStderr = v != "0" && v != "false" && v != "no"
		mu.Unlock()
	}
}

// Logger returns the shared zap logger so library packages can log
// structured fields into the same ring.
func Logger() *zap.Logger { return logger }

func Debugf(format string, a ...any) { sugar.Debugf(format, a...) }
func Infof(format string, a ...any)  { sugar.Infof(format, a...) }
func Warnf(format string, a ...any)  { sugar.Warnf(format, a...) }
func Errorf(format string, a ...any) { sugar.Errorf(format, a...) }

func Dump() string {
	mu.Lock()
	defer mu.Unlock()
	return strings.Join(buf, "\n")
}

func Lines() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(buf))
	copy(out, buf)
	return out
}

// Reset clears the ring. Counters and level are untouched.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	buf = buf[:0]
}
