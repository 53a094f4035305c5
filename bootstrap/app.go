package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/fmtool/component"
	"github.com/kbukum/fmtool/logger"
)

// App wraps one command invocation with config, logging and components.
// The type parameter C is the config type; any struct embedding
// config.ServiceConfig satisfies Config.
type App[C Config] struct {
	Name       string
	Version    string
	RunID      string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	if o.logger != nil {
		logger.SetGlobalLogger(o.logger)
	} else {
		logger.Init(&base.Logging)
	}
	logger.Reset()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		RunID:           o.runID,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          logger.GetGlobalLogger(),
		gracefulTimeout: 15 * time.Second,
	}
	if app.RunID == "" {
		app.RunID = uuid.NewString()
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// RunTask executes a finite task: start components, run OnStart hooks, run
// the task with signal-based cancellation, then shut down. The task's
// context carries the run ID for logger.WithContext.
//
// A task error takes precedence over a shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	ctx = logger.ContextWithRunID(ctx, a.RunID)

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Warn("received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	var taskErr error
	if err := a.startup(taskCtx); err != nil {
		taskErr = err
	} else {
		taskErr = task(taskCtx)
	}

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	log := a.Logger.WithContext(ctx)

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		log.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}

	log.Debug("started", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		"components", describe(a.Components.Describe()),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return nil
}

// stop runs OnStop hooks and stops components within the graceful timeout.
// It uses a fresh context so a canceled task still shuts down cleanly.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}
	return shutdownErr
}

func describe(descs []component.Description) string {
	parts := make([]string, 0, len(descs))
	for _, d := range descs {
		s := d.Name
		if d.Details != "" {
			s += "(" + d.Details + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
