package config

import (
	"os"
	"strings"
)

const (
	appNameVar  = "QUESTPATH_APP_NAME"
	envVar      = "QUESTPATH_ENV"
	logLevelVar = "QUESTPATH_LOG_LEVEL"
)

type EnvVars struct {
	*layers
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.str(appNameVar, func(v *FileValues) string { return v.AppName }, "QuestPath")
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.str(envVar, func(v *FileValues) string { return v.Env }, "DEV"))
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(e.str(logLevelVar, func(v *FileValues) string { return v.LogLevel }, "info"))
}

// GetEnv returns the value of envVar, or defaultValue when it is unset or empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func lookup(envVar, fileValue, defaultValue string) string {
	if fileValue != "" {
		defaultValue = fileValue
	}
	return GetEnv(envVar, defaultValue)
}
