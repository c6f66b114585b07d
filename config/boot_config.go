package config

import (
	"errors"
	"os"

	"github.com/SaiNageswarS/go-ajax-boot/dotenv"
	"github.com/caarlos0/env/v11"
	"github.com/go-ini/ini"
)

// Note: go-ajax-boot holds clear distinction between config and secrets.
// Config is for application configuration that can be stored in version control.
// Secrets (SMTP_PASSWORD, ACCESS_SECRET) are read exclusively from environment variables,
// optionally populated beforehand from a cloud secret store.
type BootConfig struct {
	HTTPPort string `ini:"http_port" env:"HTTP_PORT"`

	// translations
	TranslationDomain string   `ini:"translation_domain" env:"TRANSLATION_DOMAIN"`
	DefaultLocale     string   `ini:"default_locale" env:"DEFAULT_LOCALE"`
	SupportedLocales  []string `ini:"supported_locales" delim:"," env:"SUPPORTED_LOCALES" envSeparator:","`
	CatalogPath       string   `ini:"catalog_path" env:"CATALOG_PATH"`
	CatalogDSN        string   `ini:"catalog_dsn" env:"CATALOG_DSN"`
	MongoUri          string   `ini:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase     string   `ini:"mongo_database" env:"MONGO_DATABASE"`

	// controllers
	AuthorizationURL   string   `ini:"authorization_url" env:"AUTHORIZATION_URL"`
	GateStrategy       string   `ini:"gate_strategy" env:"GATE_STRATEGY"`
	CorsAllowedOrigins []string `ini:"cors_allowed_origins" delim:"," env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// mail
	MailFromAddress string `ini:"mail_from_address" env:"MAIL_FROM_ADDRESS"`
	MailFromName    string `ini:"mail_from_name" env:"MAIL_FROM_NAME"`
	SmtpHost        string `ini:"smtp_host" env:"SMTP_HOST"`
	SmtpPort        int    `ini:"smtp_port" env:"SMTP_PORT"`
	SmtpUser        string `ini:"smtp_user" env:"SMTP_USER"`

	// temporal
	TemporalHostPort  string `ini:"temporal_host_port" env:"TEMPORAL_HOST_PORT"`
	TemporalTaskQueue string `ini:"temporal_task_queue" env:"TEMPORAL_TASK_QUEUE"`

	// Cloud
	AzureKeyVaultName string `ini:"azure_key_vault_name" env:"AZURE_KEY_VAULT_NAME"`
	GcpProjectId      string `ini:"gcp_project_id" env:"GCP_PROJECT_ID"`
}

func (c *BootConfig) ApplyDefaults() {
	c.HTTPPort = ":8080"
	c.TranslationDomain = "messages"
	c.DefaultLocale = "en"
	c.AuthorizationURL = "/"
	c.GateStrategy = "event"
	c.SmtpPort = 587
	c.TemporalTaskQueue = "ajax-mail"
}

type defaulter interface {
	ApplyDefaults()
}

// Loads config into the target struct from the given path - an INI file.
// The INI section is picked by the ENV variable (empty means the default section).
// Values are then overridden by .env and by environment variables.
func LoadConfig[T any](path string, target *T) error {
	if target == nil {
		return errors.New("target cannot be nil")
	}

	if d, ok := any(target).(defaulter); ok {
		d.ApplyDefaults()
	}

	file, err := ini.Load(path)
	if err != nil {
		return err
	}

	runMode := os.Getenv("ENV")

	// Step 1: Load from INI
	if err := file.Section(runMode).MapTo(target); err != nil {
		return err
	}

	// Step 2: Override from ENV
	if err := dotenv.LoadEnv(); err != nil {
		return err
	}

	return env.Parse(target)
}
