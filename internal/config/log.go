package config

import "fmt"

// Log formats
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// LogConfig selects the logger level and encoding
type LogConfig struct {
	Level  string
	Format string
}

// LoadLogConfig loads logging configuration from environment variables
func LoadLogConfig(getenv func(string) string) (LogConfig, error) {
	config := LogConfig{
		Level:  getenv("LOG_LEVEL"),
		Format: getenv("LOG_FORMAT"),
	}
	if config.Level == "" {
		config.Level = "info"
	}
	switch config.Format {
	case "":
		config.Format = LogFormatConsole
	case LogFormatJSON, LogFormatConsole:
	default:
		return LogConfig{}, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogFormatJSON, LogFormatConsole, config.Format)
	}
	return config, nil
}
