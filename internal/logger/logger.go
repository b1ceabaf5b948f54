package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Types int

const (
	Info Types = iota
	Error
	Warn
	Fatal
)

// Logger is a tagged logger. Entries go to a rotating JSON log file when a
// log path is configured and, in dev mode, to the debug console.
type Logger struct {
	view io.Writer
	tag  string
	dev  bool
	zap  *zap.SugaredLogger
}

type manager struct {
	view io.Writer
	dev  bool
	base *zap.Logger
	file *lumberjack.Logger
}

var (
	logManager *manager
	once       sync.Once
	mu         sync.RWMutex
)

// InitLogger sets up the shared sinks. view may be nil; it is only written to
// in dev mode.
func InitLogger(dev bool, logPath string, view io.Writer) {
	once.Do(func() {
		m := &manager{view: view, dev: dev, base: zap.NewNop()}

		if logPath != "" {
			if err := os.MkdirAll(logPath, 0o755); err != nil {
				log.Fatalf("Failed to create log directory: %s", err)
			}
			timestamp := time.Now().Format("20060102_150405")
			m.file = &lumberjack.Logger{
				Filename: filepath.Join(logPath, fmt.Sprintf("loanchat_%s.log", timestamp)),
				MaxSize:  50,
				MaxAge:   14,
				Compress: true,
			}

			encoderConfig := zap.NewProductionEncoderConfig()
			encoderConfig.TimeKey = "timestamp"
			encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			level := zap.InfoLevel
			if dev {
				level = zap.DebugLevel
			}
			core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(m.file), level)
			m.base = zap.New(core)
		}

		mu.Lock()
		logManager = m
		mu.Unlock()
	})
}

// NewLogger returns a logger for tag. Before InitLogger it discards output.
func NewLogger(tag string) *Logger {
	mu.RLock()
	m := logManager
	mu.RUnlock()

	if m == nil {
		return &Logger{tag: tag, zap: zap.NewNop().Sugar()}
	}
	return &Logger{
		view: m.view,
		tag:  tag,
		dev:  m.dev,
		zap:  m.base.With(zap.String("tag", tag)).Sugar(),
	}
}

func (l *Logger) log(logTypes Types, v ...interface{}) {
	message := strings.TrimSuffix(fmt.Sprintln(v...), "\n")
	l.console(logTypes, message)

	switch logTypes {
	case Info:
		l.zap.Info(message)
	case Warn:
		l.zap.Warn(message)
	case Error, Fatal:
		l.zap.Error(message)
	}
}

func (l *Logger) logw(logTypes Types, msg string, keysAndValues ...interface{}) {
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	l.console(logTypes, sb.String())

	switch logTypes {
	case Info:
		l.zap.Infow(msg, keysAndValues...)
	case Warn:
		l.zap.Warnw(msg, keysAndValues...)
	case Error, Fatal:
		l.zap.Errorw(msg, keysAndValues...)
	}
}

func (l *Logger) console(logTypes Types, message string) {
	if !l.dev {
		return
	}
	if l.view == nil {
		log.Printf("[%s] %s: %s", l.tag, logTypes.toString(), message)
		return
	}
	var format string
	switch logTypes {
	case Info:
		format = "[green]DEBUG (%s): %s[-]\n"
	case Warn:
		format = "[yellow]DEBUG (%s): %s[-]\n"
	default:
		format = "[red]DEBUG (%s): %s[-]\n"
	}
	fmt.Fprintf(l.view, format, l.tag, message)
}

func (l *Logger) Info(v ...interface{}) {
	l.log(Info, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.log(Error, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.log(Warn, v...)
}

func (l *Logger) Fatal(v ...interface{}) {
	l.log(Fatal, v...)
	Close()
	os.Exit(1)
}

// Infow logs msg with structured key/value pairs.
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.logw(Info, msg, keysAndValues...)
}

func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.logw(Warn, msg, keysAndValues...)
}

func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.logw(Error, msg, keysAndValues...)
}

// Close flushes and closes the shared log file.
func Close() {
	mu.RLock()
	m := logManager
	mu.RUnlock()
	if m == nil {
		return
	}
	_ = m.base.Sync()
	if m.file != nil {
		m.file.Close()
	}
}

func (t Types) toString() string {
	switch t {
	case Info:
		return "INFO"
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	case Fatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}
