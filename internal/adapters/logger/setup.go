package logger_adapter

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"listings-web/config"
	"listings-web/internal/port"
)

// Setup builds the application logger from config: stdout (optionally
// teed into a rotating file) plus Fluent Bit when enabled. The returned
// func releases the file and the forwarder.
func Setup(logCfg config.LogConfig, fbCfg config.FluentBitConfig) (port.LoggerPort, func() error, error) {
	var (
		writer  io.Writer = os.Stdout
		closers []io.Closer
	)
	if logCfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   logCfg.File,
			MaxSize:    logCfg.FileMaxSize,
			MaxBackups: 3,
			Compress:   true,
		}
		closers = append(closers, rotating)
		writer = io.MultiWriter(os.Stdout, rotating)
	}

	active := []port.LoggerPort{NewSlogAdapter(SlogConfig{
		Writer: writer,
		Level:  ParseLevel(logCfg.Level),
		IsJSON: logCfg.Format == "json",
		// Colors only make sense when nothing but a terminal reads the output.
		UseColor: logCfg.Format == "color" && logCfg.File == "",
	})}

	if fbCfg.Enabled {
		client, err := NewFluentClient(FluentConfig{
			Host:      fbCfg.Host,
			Port:      fbCfg.Port,
			TagPrefix: logCfg.AppName,
		})
		if err != nil {
			closeAll(closers)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		closers = append(closers, client)
		adapter, err := NewFluentLoggerAdapter(client, ParseLevel(fbCfg.Level))
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		active = append(active, adapter)
	}

	multi, err := NewMultiLoggerAdapter(active...)
	if err != nil {
		closeAll(closers)
		return nil, nil, err
	}

	base := multi.WithFields(port.Fields{"service_name": logCfg.AppName})
	return base, func() error { return closeAll(closers) }, nil
}

func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
