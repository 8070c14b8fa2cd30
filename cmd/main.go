package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"summify/internal/config"
	"summify/internal/content"
	"summify/internal/page"
	"summify/internal/pipeline"
	"summify/internal/ratelimiter"
	"summify/internal/summarizer"
	"summify/internal/web"
	"summify/internal/youtube"
	"syscall"
	"time"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).ErrorContext(ctx, "Failed to load config",
			"error", err)

		return err
	}

	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	sum, err := summarizer.New(cfg.Summarizer(), log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize summarizer",
			"error", err,
			"provider", cfg.LLMProvider)

		return err
	}
	log.InfoContext(ctx, "Summarizer is initialized",
		"provider", sum.Provider(),
		"model", cfg.LLMModel)

	yt := youtube.New(cfg.FetchTimeout, cfg.TranscriptLanguage, log)
	loader := page.NewLoader(cfg.FetchTimeout, cfg.PageMaxBodyBytes, cfg.PageAllowPrivateNetworks, log)
	acquirer := content.NewAcquirer(yt, yt, loader, log)
	p := pipeline.New(acquirer, sum, cfg.PipelineTimeout, log)

	limiter := ratelimiter.New(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	webServer, err := web.New(p, limiter, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize web server",
			"error", err)

		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.InfoContext(ctx, "HTTP server is started",
		"addr", cfg.HTTPAddr,
		"rateLimitPerMinute", cfg.RateLimitPerMinute,
		"pipelineTimeoutSeconds", cfg.PipelineTimeout.Seconds())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "HTTP server failed",
				"error", err,
				"addr", cfg.HTTPAddr)

			return err
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "Failed to shut down HTTP server",
			"error", err)

		return err
	}

	log.InfoContext(shutdownCtx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())

	return nil
}
