package logger

import (
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
)

// Console configures logging to stdout/stderr.
type Console struct {
	Enabled bool `toml:"enabled"`

	// UseConsoleWriter switches from JSON lines to zerolog's human
	// readable console format. Meant for dev shells, not log shippers.
	UseConsoleWriter bool
}

// RollingFile configures one lumberjack-rotated log file.
type RollingFile struct {
	File       string `toml:"file"`
	MaxSize    int    `toml:"maxSize"` // megabytes
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"` // days
}

// LogFile configures file based logging, one rotated file per level group.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	Access RollingFile `toml:"access"`
	Error  RollingFile `toml:"error"`
	Info   RollingFile `toml:"info"`
	Trace  RollingFile `toml:"trace"`
	Warn   RollingFile `toml:"warn"`
}

// DataDog configures shipping log entries to DataDog.
type DataDog struct {
	ServiceName string                       `toml:"serviceName"`
	APIKey      string                       `toml:"apiKey"`
	Enabled     bool                         `toml:"enabled"`
	Site        string                       `toml:"site"` // regional site aka DD_SITE ("datadoghq.eu")
	SecretName  string                       `toml:"secretname"`
	Servers     datadog.ServerConfigurations `toml:"servers"`
	Timeout     time.Duration                `toml:"timeout"` // how long to wait per shipped entry
}

// Log is the logger configuration.
type Log struct {
	LogLevel string // trace, debug, info, warn, error
	LogEnv   string

	// EnableAccessLogToConsole lets the web access log share the console.
	// Console.Enabled=false still suppresses it.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // skip logging the liveness endpoint

	AppName     string
	ServiceName string

	Console Console
	File    LogFile `toml:"file"`
	DataDog DataDog
}
