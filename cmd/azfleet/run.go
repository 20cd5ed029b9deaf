package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/steve-rackham/azfleet/internal/action"
	"github.com/steve-rackham/azfleet/internal/azure"
	"github.com/steve-rackham/azfleet/internal/config"
	"github.com/steve-rackham/azfleet/internal/engine"
	"github.com/steve-rackham/azfleet/internal/logger"
	"github.com/steve-rackham/azfleet/internal/model"
	"github.com/steve-rackham/azfleet/internal/report"
	"github.com/steve-rackham/azfleet/internal/telemetry"
	"github.com/steve-rackham/azfleet/internal/tui"
)

const defaultParallel = 8

// runSpec describes how one subcommand turns the configuration into a run:
// which action it requests, how its targets are discovered, and how its
// handler is built.
type runSpec struct {
	Request         func(cfg *config.Config) model.Request
	DefaultParallel int
	Discover        func(ctx context.Context, clients *azure.Clients, cfg *config.Config, selector azure.TagSelector) ([]model.Target, error)
	Handler         func(clients *azure.Clients, req model.Request, cfg *config.Config) action.Handler
	After           func(res *engine.Result, cfg *config.Config, log *logger.Logger) error
}

var actionRunner = runAction

func runAction(flags *rootFlags, spec runSpec) error {
	if err := validateConfigPath(flags.configPath); err != nil {
		return err
	}

	cfg, err := config.ParseConfig(flags.configPath)
	if err != nil {
		return err
	}

	req := spec.Request(cfg)
	effectiveDryRun := flags.dryRun || cfg.Settings.DryRun
	effectiveVerbose := flags.verbose || cfg.Settings.Verbose

	level := "info"
	if effectiveVerbose {
		level = "debug"
	}

	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	clients, err := azure.NewClients(cfg.Subscription)
	if err != nil {
		return fmt.Errorf("azure session: %w", err)
	}

	selector, err := azure.ParseTagSelector(cfg.Fleet.TagSelector)
	if err != nil {
		return err
	}

	action.ResetRegistry()
	handler := spec.Handler(clients, req, cfg)
	if err := action.Register(handler); err != nil {
		return err
	}
	if v, ok := handler.(action.Validator); ok {
		if err := v.ValidateRequest(req); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	targets, err := spec.Discover(ctx, clients, cfg, selector)
	if err != nil {
		return fmt.Errorf("discover targets: %w", err)
	}

	parallel := cfg.Settings.Parallel
	if parallel <= 0 {
		parallel = spec.DefaultParallel
	}
	if parallel <= 0 {
		parallel = defaultParallel
	}

	var timeout time.Duration
	if cfg.Settings.Timeout > 0 {
		timeout = time.Duration(cfg.Settings.Timeout) * time.Second
	}

	rc := &engine.RunContext{
		Context:     ctx,
		RunID:       uuid.NewString(),
		Request:     req,
		Targets:     targets,
		DryRun:      effectiveDryRun,
		MaxInFlight: parallel,
		Timeout:     timeout,
		Logger:      log,
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && !effectiveVerbose

	var program *tea.Program
	var programErr error
	done := make(chan struct{})

	if interactive {
		modelState := tui.NewModel(req.Label(), targets, false)
		program = tea.NewProgram(modelState)
		rc.Sink = tui.NewSink(program.Send)
		go func() {
			_, programErr = program.Run()
			close(done)
		}()
	} else {
		rc.Sink = engine.NewLoggerSink(log)
	}

	res, runErr := engine.Run(rc)

	if interactive {
		program.Send(tea.QuitMsg{})
		<-done
		if programErr != nil {
			return programErr
		}
	}

	if res == nil {
		return runErr
	}

	report.Render(os.Stdout, res)

	if err := telemetry.New(cfg.Telemetry.Pushgateway).Publish(ctx, res.Summary); err != nil {
		log.WithRun(rc.RunID, req.Label()).Warn(fmt.Sprintf("telemetry push failed: %v", err))
	}

	if spec.After != nil && !effectiveDryRun {
		if err := spec.After(res, cfg, log); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}

	if res.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d target(s) failed", res.Summary.Failed, res.Summary.Processed)
	}

	return nil
}
