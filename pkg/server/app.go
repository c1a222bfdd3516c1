package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"StockPulse/internal/service/newsscrape"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
)

// Commands lists the subcommands App.Run accepts.
var Commands = []string{"init-db", "fetch", "enrich", "prepare", "impact", "event-study", "serve"}

// ErrUnknownCommand is returned by Run for a name outside Commands.
var ErrUnknownCommand = errors.New("unknown command")

// Pipeline groups the use cases behind the commands.
type Pipeline struct {
	Ingestor *usecase.Ingestor
	Enricher *usecase.Enricher
	Preparer *usecase.Preparer
	Analyzer *usecase.Analyzer
	Exporter *usecase.Exporter
}

// App encapsulates the application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	pipeline    Pipeline
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, p Pipeline, h xhttp.Handler) *App {
	return &App{cfg: cfg, log: l, pipeline: p, httpHandler: h}
}

// Run executes one command. serve blocks until SIGINT or SIGTERM.
func (a *App) Run(ctx context.Context, command string) error {
	began := time.Now()
	var err error
	switch command {
	case "init-db":
		err = a.pipeline.Ingestor.InitSchema(ctx)
	case "fetch":
		_, err = a.pipeline.Ingestor.Run(ctx)
	case "enrich":
		err = a.enrich(ctx)
	case "prepare":
		err = a.prepare(ctx)
	case "impact":
		err = a.impact(ctx)
	case "event-study":
		err = a.eventStudy(ctx)
	case "serve":
		err = a.serve(ctx)
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, command)
	}
	if err != nil {
		a.log.Error("command failed", applogger.String("command", command), applogger.Error(err))
		return err
	}
	a.log.Info("command finished", applogger.String("command", command), applogger.Duration("duration_ms", time.Since(began)))
	return nil
}

func (a *App) enrich(ctx context.Context) error {
	entries, err := newsscrape.LoadNewsFile(a.cfg.News.File)
	if err != nil {
		return err
	}
	_, err = a.pipeline.Enricher.Run(ctx, entries)
	return err
}

func (a *App) prepare(ctx context.Context) error {
	ds, err := a.pipeline.Preparer.Prepare(ctx, a.cfg.StartDate(), a.cfg.SplitDate())
	if err != nil {
		return err
	}
	_, err = a.pipeline.Exporter.Export(ctx, a.pipeline.Preparer.Symbol(), ds)
	return err
}

func (a *App) impact(ctx context.Context) error {
	sum, err := a.pipeline.Analyzer.Impact(ctx, a.cfg.StartDate())
	if err != nil {
		return err
	}
	p, err := usecase.WriteJSON(a.cfg.Analysis.OutputDir, "impact_analysis.json", sum)
	if err != nil {
		return err
	}
	a.log.Info("impact summary written", applogger.String("path", p))
	return nil
}

func (a *App) eventStudy(ctx context.Context) error {
	study, err := a.pipeline.Analyzer.EventStudy(ctx, a.cfg.StartDate(), a.cfg.Analysis.EventWindow)
	if err != nil {
		return err
	}
	p, err := usecase.WriteJSON(a.cfg.Analysis.OutputDir, "event_study_caar.json", study)
	if err != nil {
		return err
	}
	a.log.Info("event study written", applogger.String("path", p))
	return nil
}

func (a *App) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)
	if err := srv.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return srv.Stop(context.Background())
}
