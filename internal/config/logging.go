package config

import (
	"os"

	"github.com/yourpaljake/hitfinding/internal/logging"
)

// Environment variables that override the logging section.
const (
	EnvLogLevel  = "HITFIND_LOG_LEVEL"
	EnvLogFormat = "HITFIND_LOG_FORMAT"
)

// ToLoggingConfig converts the logging section to logging.Config.
//
// The conversion applies these rules:
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// WithEnvOverrides returns lc with HITFIND_LOG_LEVEL and HITFIND_LOG_FORMAT applied.
func (lc LoggingConfig) WithEnvOverrides(lookupEnv func(string) (string, bool)) LoggingConfig {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		lc.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		lc.Format = v
	}
	return lc
}

// ForDebug forces verbose console logging on stderr.
func (lc LoggingConfig) ForDebug() LoggingConfig {
	lc.Level = "debug"
	lc.Format = logging.FormatConsole
	lc.File = ""
	return lc
}
