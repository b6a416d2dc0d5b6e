package main

import (
	"log/slog"
	"net/http"
	"os"

	"blogredirect/framework/httpserver"
	"blogredirect/internal/config"
	"blogredirect/internal/lambdahttp"
	"blogredirect/internal/logging"
	"blogredirect/internal/redirect"
)

func main() {
	cfg := config.Load()

	logger := logging.Init(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})

	if cfg.IsLambda() {
		lambdahttp.Start(lambdahttp.NewHandler(redirect.Resolve, logger))
		return
	}

	handler, err := httpserver.New(httpserver.Config{
		Resolve: redirect.Resolve,
		CachePolicies: httpserver.CachePolicies{
			Redirect: cfg.CacheControl,
		},
		LogServerError: func(err error) {
			logger.Error("redirect server error", slog.String("error", err.Error()))
		},
		AccessLog:  os.Stdout,
		HealthPath: cfg.HealthPath,
	})
	if err != nil {
		logger.Error("handler setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("redirect server listening", slog.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
