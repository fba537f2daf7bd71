// Command userform serves the user sign-up form and its JSON API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/dalemusser/userform/app"
	"github.com/dalemusser/userform/config"
	"github.com/dalemusser/userform/health"
	"github.com/dalemusser/userform/internal/userform"
	"github.com/dalemusser/userform/internal/web"
	"github.com/dalemusser/userform/metrics"
	"github.com/dalemusser/userform/router"
	"github.com/dalemusser/userform/version"
	"go.uber.org/zap"
)

const keyAllowedDomain = "allowed_email_domain"

var appKeys = []config.AppKey{
	{Name: keyAllowedDomain, Default: userform.DefaultDomain, Desc: "E-mail suffix accepted by the form"},
}

// appConfig is the userform-specific part of the configuration.
type appConfig struct {
	AllowedEmailDomain string
}

func main() {
	err := app.Run(context.Background(), app.Hooks[appConfig]{
		Name:         "userform",
		LoadConfig:   loadConfig,
		BuildHandler: buildHandler,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "userform:", err)
		os.Exit(1)
	}
}

func loadConfig(logger *zap.Logger) (*config.CoreConfig, appConfig, error) {
	core, vals, err := config.Load(logger, appKeys...)
	if err != nil {
		return nil, appConfig{}, err
	}
	return core, appConfig{AllowedEmailDomain: vals.String(keyAllowedDomain)}, nil
}

func buildHandler(core *config.CoreConfig, cfg appConfig, logger *zap.Logger) (http.Handler, error) {
	schema := userform.New(
		userform.WithDomain(cfg.AllowedEmailDomain),
		userform.WithLogger(logger),
	)
	h, err := web.New(schema, logger)
	if err != nil {
		return nil, err
	}

	r := router.New(core, logger)
	h.Mount(r, core)
	health.Mount(r, nil, logger)
	version.Mount(r)
	if core.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	logger.Info("routes mounted",
		zap.String("allowed_email_domain", schema.Domain()),
		zap.String("version", version.String()),
		zap.Bool("metrics", core.EnableMetrics))
	return r, nil
}
