package config

import (
	"os"
	"strconv"
)

// IsDebug reports whether AIDE_DEBUG holds a true value ("1", "true", ...).
func IsDebug() bool {
	on, _ := strconv.ParseBool(os.Getenv("AIDE_DEBUG"))
	return on
}

// LogFormat returns AIDE_LOG_FORMAT, "console" when unset.
func LogFormat() string {
	if f := os.Getenv("AIDE_LOG_FORMAT"); f != "" {
		return f
	}
	return "console"
}
