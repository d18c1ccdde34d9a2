package logger_adapter

import (
	"errors"

	"listings-web/internal/port"
)

var errNoLoggers = errors.New("multilogger: at least one logger is required")

// MultiLoggerAdapter writes every entry to each of its sinks, in order.
type MultiLoggerAdapter []port.LoggerPort

// NewMultiLoggerAdapter skips nil sinks. A single remaining sink is returned
// as is.
func NewMultiLoggerAdapter(sinks ...port.LoggerPort) (port.LoggerPort, error) {
	var m MultiLoggerAdapter
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	switch len(m) {
	case 0:
		return nil, errNoLoggers
	case 1:
		return m[0], nil
	}
	return m, nil
}

func (m MultiLoggerAdapter) each(write func(port.LoggerPort)) {
	for _, s := range m {
		write(s)
	}
}

func (m MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	m.each(func(s port.LoggerPort) { s.Debug(msg, fields) })
}

func (m MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	m.each(func(s port.LoggerPort) { s.Info(msg, fields) })
}

func (m MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	m.each(func(s port.LoggerPort) { s.Warn(msg, fields) })
}

func (m MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	m.each(func(s port.LoggerPort) { s.Error(msg, err, fields) })
}

func (m MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	scoped := make(MultiLoggerAdapter, 0, len(m))
	m.each(func(s port.LoggerPort) { scoped = append(scoped, s.WithFields(fields)) })
	return scoped
}
