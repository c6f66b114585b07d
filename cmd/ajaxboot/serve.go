package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaiNageswarS/go-ajax-boot/ajax"
	"github.com/SaiNageswarS/go-ajax-boot/cloud"
	"github.com/SaiNageswarS/go-ajax-boot/config"
	"github.com/SaiNageswarS/go-ajax-boot/i18n"
	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"github.com/SaiNageswarS/go-ajax-boot/mailer"
	"github.com/SaiNageswarS/go-ajax-boot/metrics"
	"github.com/SaiNageswarS/go-ajax-boot/server"
	"github.com/prometheus/client_golang/prometheus"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// SmtpPasswordEnv names the environment variable holding the SMTP password.
const SmtpPasswordEnv = "SMTP_PASSWORD"

//go:embed templates
var templateFS embed.FS

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	// ContactRecipient receives contact form mail. Defaults to the sender address.
	ContactRecipient string `ini:"contact_recipient" env:"CONTACT_RECIPIENT"`
	StaticDir        string `ini:"static_dir" env:"STATIC_DIR"`
}

func Serve(ctx context.Context, configPath string) error {
	cfg := &AppConfig{}
	if err := config.LoadConfig(configPath, cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cloud.LoadSecrets(ctx, cloud.StoresFor(&cfg.BootConfig)...); err != nil {
		return fmt.Errorf("load secrets: %w", err)
	}

	catalog, err := loadCatalog(ctx, &cfg.BootConfig)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	rec, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	b, err := newApplication(cfg, catalog, rec, smtpTransport(cfg))
	if err != nil {
		return err
	}

	srv, err := b.Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting server", zap.String("addr", srv.Addr().String()))
	return srv.Serve(ctx)
}

func smtpTransport(cfg *AppConfig) *mailer.SMTPTransport {
	host := cfg.SmtpHost
	if host == "" {
		host = "localhost"
	}
	return &mailer.SMTPTransport{
		Host:      host,
		Port:      cfg.SmtpPort,
		Username:  cfg.SmtpUser,
		Password:  os.Getenv(SmtpPasswordEnv),
		Attempts:  3,
		BaseDelay: time.Second,
	}
}

// newApplication wires the contact application. transport delivers mail; when
// Temporal is configured it runs on the worker and the web side enqueues
// deliveries as workflows instead.
func newApplication(cfg *AppConfig, catalog *i18n.Catalog, rec *metrics.Recorder, transport mailer.Transport) (*server.Builder, error) {
	strategy, err := ajax.ParseStrategy(cfg.GateStrategy)
	if err != nil {
		return nil, err
	}

	defaultLocale, err := language.Parse(cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("default locale: %w", err)
	}
	supported, err := i18n.ParseLocales(cfg.SupportedLocales)
	if err != nil {
		return nil, fmt.Errorf("supported locales: %w", err)
	}
	if len(supported) == 0 {
		supported = []language.Tag{defaultLocale}
	}
	negotiator := i18n.NewNegotiator(supported...)

	templates, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	renderer, err := mailer.NewTemplateRenderer(templates)
	if err != nil {
		return nil, err
	}

	if cfg.ContactRecipient == "" {
		cfg.ContactRecipient = cfg.MailFromAddress
	}

	b := server.New().
		HTTPPort(cfg.HTTPPort).
		StaticDir(cfg.StaticDir).
		Logger(logger.Get()).
		Metrics(rec).
		GateStrategy(strategy).
		CORS(server.DefaultCORS(cfg.CorsAllowedOrigins...)).
		Use(negotiator.Middleware).
		Provide(cfg).
		ProvideAs(catalog, (*i18n.Provider)(nil))

	if cfg.TemporalHostPort != "" {
		b.WithTemporal(cfg.TemporalTaskQueue, &client.Options{HostPort: cfg.TemporalHostPort}).
			ProvideFunc(func(tc client.Client) mailer.Transport {
				return &mailer.TemporalTransport{Client: tc, TaskQueue: cfg.TemporalTaskQueue}
			}).
			RegisterTemporalWorkflow(mailer.DeliverEmailWorkflow).
			RegisterTemporalActivity(func() *mailer.Activities {
				return &mailer.Activities{Transport: transport}
			})
	} else {
		b.ProvideAs(transport, (*mailer.Transport)(nil))
	}

	b.ProvideFunc(func(t mailer.Transport, log *zap.Logger) *mailer.Mailer {
		m := mailer.New(renderer, t, mailer.WithLogger(log), mailer.WithMetrics(rec))
		if cfg.MailFromAddress != "" {
			m.SetFrom(cfg.MailFromAddress, cfg.MailFromName)
		}
		return m
	}).
		ProvideFunc(func(tr i18n.Provider, urls ajax.URLResolver, log *zap.Logger, m *mailer.Mailer) ajax.Deps {
			return ajax.Deps{
				Translations:      tr,
				Router:            urls,
				Logger:            log,
				Metrics:           rec,
				Mailer:            m,
				DefaultLocale:     defaultLocale,
				TranslationDomain: cfg.TranslationDomain,
				AuthorizationURL:  cfg.AuthorizationURL,
			}
		}).
		RegisterController(NewContactController)

	return b, nil
}
