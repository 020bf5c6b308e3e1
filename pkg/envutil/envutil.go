// Package envutil reads typed configuration values from the
// environment, falling back to defaults.
package envutil

import (
	"os"
	"strconv"

	"github.com/sjc5/routekit/pkg/colorlog"
)

var log = colorlog.New("envutil")

func GetStr(key string, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func GetInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("invalid integer, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}

func GetBool(key string, defaultValue bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn("invalid boolean, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}
