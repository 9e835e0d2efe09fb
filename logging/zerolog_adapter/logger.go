package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/stagd/stagd"
	stagdLogging "github.com/stagd/stagd/logging"
)

// Logger is a builder-style structured logger on top of zerolog.
type Logger struct {
	zerolog.Logger
}

const (
	ModuleFieldName   = "module"
	DefaultTimeFormat = "2006-01-02 15:04:05.000"
)

// ConfigureLog creates a new logger based on github.com/rs/zerolog package.
func ConfigureLog(logFile, logLevel, module string, pretty bool) (*Logger, error) {
	return newLog(logFile, logLevel, module, pretty, false)
}

// GetLogger returns a default logger, used in tests.
func GetLogger(module string) (stagd.Logger, error) {
	return newLog("stdout", "info", module, true, true)
}

func newLog(logFile, logLevel, module string, pretty, colorOff bool) (*Logger, error) {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}

	logWriter, err := getLogWriter(logFile)
	if err != nil {
		return nil, err
	}
	zerolog.TimeFieldFormat = DefaultTimeFormat

	if pretty {
		logWriter = zerolog.ConsoleWriter{
			Out:        logWriter,
			NoColor:    colorOff,
			TimeFormat: DefaultTimeFormat,
			PartsOrder: []string{zerolog.TimestampFieldName, ModuleFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName},
		}
	}

	logger := zerolog.New(logWriter).Level(level).With().Str(ModuleFieldName, module).Logger()
	return &Logger{logger}, nil
}

func getLogWriter(logFileName string) (io.Writer, error) {
	if logFileName == "stdout" || logFileName == "" {
		return os.Stdout, nil
	}

	logDir := filepath.Dir(logFileName)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("can't create log directories %s: %s", logDir, err.Error())
	}
	logFile, err := os.OpenFile(logFileName, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("can't open log file %s: %s", logFileName, err.Error())
	}
	return logFile, nil
}

func (l *Logger) Debug() stagdLogging.EventBuilder {
	return EventBuilder{l.Logger.Debug().Timestamp()}
}

func (l *Logger) Info() stagdLogging.EventBuilder {
	return EventBuilder{l.Logger.Info().Timestamp()}
}

func (l *Logger) Warning() stagdLogging.EventBuilder {
	return EventBuilder{l.Logger.Warn().Timestamp()}
}

func (l *Logger) Error() stagdLogging.EventBuilder {
	return EventBuilder{l.Logger.Error().Timestamp()}
}

func (l *Logger) Fatal() stagdLogging.EventBuilder {
	return EventBuilder{l.Logger.Fatal().Timestamp()}
}

func (l *Logger) String(key, value string) stagd.Logger {
	l.Logger = l.Logger.With().Str(key, value).Logger()
	return l
}

func (l *Logger) Int(key string, value int) stagd.Logger {
	l.Logger = l.Logger.With().Int(key, value).Logger()
	return l
}

func (l *Logger) Fields(fields map[string]interface{}) stagd.Logger {
	l.Logger = l.Logger.With().Fields(fields).Logger()
	return l
}

func (l *Logger) Level(s string) (stagd.Logger, error) {
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return l, err
	}
	l.Logger = l.Logger.Level(level)
	return l, nil
}

func (l *Logger) Clone() stagd.Logger {
	clone := *l
	return &clone
}
