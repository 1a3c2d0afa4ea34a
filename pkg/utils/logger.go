package utils

import (
	"github.com/iotaledger/hive.go/logger"
)

// WrappedLogger calls the logging functions only in case a logger was passed.
type WrappedLogger struct {
	logger *logger.Logger
}

// NewWrappedLogger creates a new WrappedLogger. The logger may be nil.
func NewWrappedLogger(logger *logger.Logger) *WrappedLogger {
	return &WrappedLogger{logger: logger}
}

// Logger returns the underlying logger, or nil.
func (l *WrappedLogger) Logger() *logger.Logger {
	return l.logger
}

// LoggerNamed adds a sub-scope to the logger's name.
func (l *WrappedLogger) LoggerNamed(name string) *logger.Logger {
	if l.logger == nil {
		return nil
	}
	return l.logger.Named(name)
}

func (l *WrappedLogger) LogDebug(args ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(args...)
	}
}

func (l *WrappedLogger) LogDebugf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Debugf(template, args...)
	}
}

func (l *WrappedLogger) LogInfo(args ...interface{}) {
	if l.logger != nil {
		l.logger.Info(args...)
	}
}

func (l *WrappedLogger) LogInfof(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Infof(template, args...)
	}
}

func (l *WrappedLogger) LogWarn(args ...interface{}) {
	if l.logger != nil {
		l.logger.Warn(args...)
	}
}

func (l *WrappedLogger) LogWarnf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Warnf(template, args...)
	}
}

func (l *WrappedLogger) LogError(args ...interface{}) {
	if l.logger != nil {
		l.logger.Error(args...)
	}
}

func (l *WrappedLogger) LogErrorf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Errorf(template, args...)
	}
}
