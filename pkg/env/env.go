package env

import "os"

// LogFormat selects the zerolog writer; "console" switches to the human
// readable writer.
const LogFormat = "REDCARPET_LOG_FORMAT"

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
