package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestParseDurationFlexible(t *testing.T) {
	def := 7 * time.Second
	tests := []struct {
		name    string
		raw     any
		want    time.Duration
		wantErr bool
	}{
		{"duration string", "90s", 90 * time.Second, false},
		{"minutes", "2m", 2 * time.Minute, false},
		{"plain seconds string", "120", 120 * time.Second, false},
		{"int seconds", 30, 30 * time.Second, false},
		{"int64 seconds", int64(5), 5 * time.Second, false},
		{"float seconds", 1.5, 1500 * time.Millisecond, false},
		{"time.Duration", 3 * time.Second, 3 * time.Second, false},
		{"empty string", "", def, false},
		{"nil", nil, def, false},
		{"bool", true, def, false},
		{"garbage", "soon", def, true},
		{"zero", "0s", def, true},
		{"negative int", -1, def, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDurationFlexible(tt.raw, def)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func validConfig() CoreConfig {
	return CoreConfig{
		Env:               "dev",
		LogLevel:          "info",
		HTTP:              HTTPConfig{HTTPPort: 8080, HTTPSPort: 443},
		EnableCompression: true,
		CompressionLevel:  5,
	}
}

func TestValidateCoreConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CoreConfig)
		wantErr string
	}{
		{"valid", func(*CoreConfig) {}, ""},
		{"bad env", func(c *CoreConfig) { c.Env = "staging" }, `env must be "dev" or "prod"`},
		{"bad port", func(c *CoreConfig) { c.HTTP.HTTPPort = 0 }, "http_port must be in 1..65535"},
		{"manual tls without files", func(c *CoreConfig) { c.HTTP.UseHTTPS = true }, "USERFORM_CERT_FILE"},
		{"acme without https", func(c *CoreConfig) {
			c.TLS.UseLetsEncrypt = true
			c.TLS.Domain = "example.com"
			c.TLS.LetsEncryptEmail = "ops@example.com"
		}, "use_lets_encrypt=true requires use_https=true"},
		{"acme missing domain", func(c *CoreConfig) {
			c.HTTP.UseHTTPS = true
			c.TLS.UseLetsEncrypt = true
			c.TLS.LetsEncryptEmail = "ops@example.com"
		}, "USERFORM_DOMAIN"},
		{"cors without origins", func(c *CoreConfig) {
			c.CORS.EnableCORS = true
			c.CORS.CORSAllowedMethods = []string{"POST"}
		}, "cors_allowed_origins"},
		{"cors wildcard with credentials", func(c *CoreConfig) {
			c.CORS.EnableCORS = true
			c.CORS.CORSAllowedOrigins = []string{"*"}
			c.CORS.CORSAllowedMethods = []string{"POST"}
			c.CORS.CORSAllowCredentials = true
		}, `cannot use "*"`},
		{"compression level", func(c *CoreConfig) { c.CompressionLevel = 12 }, "compression_level must be in 1..9"},
		{"compression level ignored when disabled", func(c *CoreConfig) {
			c.EnableCompression = false
			c.CompressionLevel = 0
		}, ""},
		{"negative rate limit", func(c *CoreConfig) { c.SubmitRateLimit = -1 }, "submit_rate_limit must be >= 0"},
		{"rate limit without burst", func(c *CoreConfig) {
			c.SubmitRateLimit = 2
			c.SubmitRateBurst = 0
		}, "submit_rate_burst must be >= 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := validateCoreConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FlagsEnvAndAppKeys(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("USERFORM_HTTP_PORT", "9090")
	t.Setenv("USERFORM_LOG_LEVEL", "warn")
	t.Setenv("USERFORM_ALLOWED_EMAIL_DOMAIN", "@env.example")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	keys := []AppKey{
		{Name: "allowed_email_domain", Default: "@rocketseat.com.br", Desc: "e-mail suffix"},
		{Name: "page_title", Default: "Cadastro", Desc: "title"},
	}
	args := []string{"--log_level=error", "--read_timeout=3s", "--page_title=Novo"}

	cfg, app, err := load(nil, fs, args, keys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d, want 9090 from env", cfg.HTTP.HTTPPort)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want flag value over env", cfg.LogLevel)
	}
	if cfg.HTTP.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout = %v, want 3s", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.ShutdownTimeout != 15*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default 15s", cfg.HTTP.ShutdownTimeout)
	}
	if got := app.String("allowed_email_domain"); got != "@env.example" {
		t.Errorf("allowed_email_domain = %q, want env value", got)
	}
	if got := app.String("page_title"); got != "Novo" {
		t.Errorf("page_title = %q, want flag value", got)
	}
}

func TestLoad_AppKeyConflict(t *testing.T) {
	t.Chdir(t.TempDir())
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	_, _, err := load(nil, fs, nil, []AppKey{{Name: "http_port", Default: 1}})
	if err == nil || !strings.Contains(err.Error(), "conflicts") {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestAppConfigValues(t *testing.T) {
	a := AppConfigValues{
		"s":   "x",
		"i":   int64(4),
		"b":   true,
		"ss":  []string{"a"},
		"dur": "2m",
	}
	if a.String("s") != "x" || a.String("missing") != "" {
		t.Error("String mismatch")
	}
	if a.Int("i") != 4 {
		t.Errorf("Int = %d", a.Int("i"))
	}
	if !a.Bool("b") {
		t.Error("Bool mismatch")
	}
	if len(a.StringSlice("ss")) != 1 {
		t.Error("StringSlice mismatch")
	}
	if a.Duration("dur", time.Second) != 2*time.Minute {
		t.Errorf("Duration = %v", a.Duration("dur", time.Second))
	}
	if a.Duration("missing", time.Second) != time.Second {
		t.Error("Duration default mismatch")
	}
}
