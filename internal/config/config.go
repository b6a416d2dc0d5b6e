package config

import (
	"os"
	"strings"
)

const (
	ModeAuto   = ""
	ModeLambda = "lambda"
	ModeHTTP   = "http"
)

type Config struct {
	Mode string

	ListenAddr   string
	HealthPath   string
	CacheControl string

	LogLevel  string
	LogFormat string
}

func Load() Config {
	return Config{
		Mode:       resolveMode(os.Getenv("REDIRECT_MODE"), os.Getenv("AWS_LAMBDA_RUNTIME_API")),
		ListenAddr: getEnv("REDIRECT_LISTEN_ADDR", ":8080"),
		HealthPath: getEnv("REDIRECT_HEALTH_PATH", "/healthz"),
		CacheControl: strings.TrimSpace(
			os.Getenv("REDIRECT_CACHE_CONTROL"),
		),
		LogLevel:  getEnv("AWS_LAMBDA_LOG_LEVEL", "INFO"),
		LogFormat: getEnv("AWS_LAMBDA_LOG_FORMAT", "Text"),
	}
}

func (c Config) IsLambda() bool {
	return c.Mode == ModeLambda
}

func resolveMode(mode string, runtimeAPI string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeLambda:
		return ModeLambda
	case ModeHTTP:
		return ModeHTTP
	}

	if strings.TrimSpace(runtimeAPI) != "" {
		return ModeLambda
	}
	return ModeHTTP
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}

	return value
}
