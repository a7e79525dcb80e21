package logger

import (
	"time"

	"github.com/grumpygabe/TeragonPOIParser/internal/models"
)

// Logger is the leveled logging surface shared by every implementation
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// SummaryLogger is implemented by loggers that can report run totals
type SummaryLogger interface {
	LogSummary(stats models.RunStats, duration time.Duration)
}

// MultiLogger forwards every message to each of its loggers in order
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger; nil entries are dropped
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, l := range m.loggers {
		l.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

// LogSummary forwards to every logger that implements SummaryLogger
func (m *MultiLogger) LogSummary(stats models.RunStats, duration time.Duration) {
	for _, l := range m.loggers {
		if s, ok := l.(SummaryLogger); ok {
			s.LogSummary(stats, duration)
		}
	}
}
