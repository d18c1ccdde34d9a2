package port

// Fields are structured key/value pairs attached to a log line.
type Fields map[string]interface{}

// LoggerPort is the logging contract every component depends on.
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	WithFields(fields Fields) LoggerPort
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields)        {}
func (NopLogger) Info(string, Fields)         {}
func (NopLogger) Warn(string, Fields)         {}
func (NopLogger) Error(string, error, Fields) {}

func (n NopLogger) WithFields(Fields) LoggerPort { return n }
