package config

import "time"

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string
	// Mounts the pprof/expvar profiler under /debug
	Dev bool
	// Origins allowed to fetch /properties.json from another site
	CORSOrigins []string
	// Hard limit for building and writing one response
	RequestTimeout time.Duration
}

// DataConfig selects where the listing payload comes from.
type DataConfig struct {
	// One of "file", "http", "postgres"
	Source string
	// Path of the static payload when Source is "file"
	Path string
	// URL of the payload when Source is "http"
	URL string
	// Postgres connection string when Source is "postgres" (and for import)
	PostgresDSN string
	// Upper bound for a single payload fetch; zero means no timeout
	FetchTimeout time.Duration
}

// PageConfig controls rendering of the page.
type PageConfig struct {
	// Locale used for currency formatting; empty disables locale formatting
	Locale string
	// How long the copy button keeps its confirmation text
	CopyConfirm time.Duration
}

// LogConfig controls the logger adapters.
type LogConfig struct {
	Level string
	// "text", "json" or "color"
	Format string
	// Optional rolling log file, written in addition to stdout
	File string
	// Max size in megabytes before the log file is rotated
	FileMaxSize int
	// Name attached to every log line
	AppName string
}

// FluentBitConfig controls the optional Fluent Bit forwarder.
type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

// BrowserConfig controls headless Chrome flags for the page check.
type BrowserConfig struct {
	Headless   bool
	DisableGPU bool
	NoSandbox  bool
	DisableShm bool
	UserAgent  string
}

// TimingConfig controls the waits of the headless page check.
type TimingConfig struct {
	// How long to wait for the page shell to become visible
	PageLoadWait time.Duration
	// Hard timeout for the whole check
	CheckTimeout time.Duration
}

// RetryConfig controls retries of browser navigation.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Config is the root configuration passed into the application.
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Page      PageConfig
	Log       LogConfig
	FluentBit FluentBitConfig
	Browser   BrowserConfig
	Timing    TimingConfig
	Retry     RetryConfig
}

// Default returns a conservative production-ready configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 30 * time.Second,
		},
		Data: DataConfig{
			Source:       "file",
			Path:         "properties.json",
			FetchTimeout: 10 * time.Second,
		},
		Page: PageConfig{
			Locale:      "es-CL",
			CopyConfirm: 1200 * time.Millisecond,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "text",
			FileMaxSize: 50,
			AppName:     "listings-web",
		},
		FluentBit: FluentBitConfig{
			Port:  24224,
			Level: "info",
		},
		Browser: BrowserConfig{
			Headless:   true,
			DisableGPU: true,
			NoSandbox:  true,
			DisableShm: true,
			UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Timing: TimingConfig{
			PageLoadWait: 5 * time.Second,
			CheckTimeout: 30 * time.Second,
		},
		Retry: RetryConfig{
			MaxRetries:     2,
			InitialBackoff: 500 * time.Millisecond,
			MaxBackoff:     5 * time.Second,
		},
	}
}

// Dev returns a config suited for local development.
func Dev() *Config {
	cfg := Default()
	cfg.Server.Dev = true
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "color"
	cfg.Data.FetchTimeout = 3 * time.Second
	cfg.Timing.CheckTimeout = 15 * time.Second
	return cfg
}
