package core

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type LogLevel = log.Level

const (
	DebugLevel = log.DebugLevel
	InfoLevel  = log.InfoLevel
	WarnLevel  = log.WarnLevel
	ErrorLevel = log.ErrorLevel
	FatalLevel = log.FatalLevel
)

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

func getLogger() *logger {
	once.Do(
		func() {
			l := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
				Prefix:          "Abyss 🕳️ ",
				Level:           log.InfoLevel,
				// the Log* helpers add one frame
				CallerOffset: 1,
			})
			singleton = &logger{l}
		})
	return singleton
}

// Logger returns the engine logger. Components that take an injectable
// logger default to this one.
func Logger() *log.Logger {
	return getLogger().Logger
}

// ScriptLogger returns a child logger used for messages emitted by game
// scripts through the engine capability object.
func ScriptLogger() *log.Logger {
	return getLogger().WithPrefix("script")
}

func SetLogLevel(level LogLevel) {
	getLogger().SetLevel(level)
}

func SetLogOutput(w io.Writer) {
	getLogger().SetOutput(w)
}

// ParseLogLevel accepts the level names used in configuration files.
func ParseLogLevel(s string) (LogLevel, error) {
	return log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
