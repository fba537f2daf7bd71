// app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/userform/config"
	"github.com/dalemusser/userform/httputil"
	"github.com/dalemusser/userform/logging"
	"github.com/dalemusser/userform/metrics"
	"github.com/dalemusser/userform/server"
	"go.uber.org/zap"
)

// Hooks are the pieces a binary supplies to Run. C is its app-level config.
type Hooks[C any] struct {
	// Name appears in startup logs.
	Name string

	// LoadConfig returns the core config and the app config. It normally
	// wraps config.Load.
	LoadConfig func(logger *zap.Logger) (*config.CoreConfig, C, error)

	// BuildHandler returns the complete handler: router, middleware, routes.
	BuildHandler func(core *config.CoreConfig, appCfg C, logger *zap.Logger) (http.Handler, error)
}

// Run loads config, swaps the bootstrap logger for the configured one,
// registers metrics when enabled, builds the handler and serves until ctx
// ends or SIGINT/SIGTERM arrives.
func Run[C any](ctx context.Context, hooks Hooks[C]) error {
	if hooks.LoadConfig == nil || hooks.BuildHandler == nil {
		return fmt.Errorf("app %q: LoadConfig and BuildHandler are required", hooks.Name)
	}

	bootstrap := logging.BootstrapLogger()
	defer bootstrap.Sync()

	coreCfg, appCfg, err := hooks.LoadConfig(bootstrap)
	if err != nil {
		bootstrap.Error("config load failed", zap.Error(err))
		return fmt.Errorf("load config: %w", err)
	}
	bootstrap.Info("config loaded",
		zap.String("app", hooks.Name),
		zap.String("env", coreCfg.Env),
		zap.String("log_level", coreCfg.LogLevel),
	)

	logger, err := logging.BuildLogger(coreCfg.LogLevel, coreCfg.Env)
	if err != nil {
		bootstrap.Error("logger build failed", zap.Error(err))
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()
	httputil.SetLogger(logger)

	if coreCfg.EnableMetrics {
		metrics.RegisterDefault(logger)
	}

	ctx, cancel := server.WithShutdownSignals(ctx, logger)
	defer cancel()

	handler, err := hooks.BuildHandler(coreCfg, appCfg, logger)
	if err != nil {
		logger.Error("handler build failed", zap.Error(err))
		return fmt.Errorf("build handler: %w", err)
	}

	logger.Info("starting", zap.String("app", hooks.Name))
	if err := server.ListenAndServeWithContext(ctx, coreCfg, handler, logger); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return err
	}
	return nil
}
