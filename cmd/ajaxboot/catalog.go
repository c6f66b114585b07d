package main

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/SaiNageswarS/go-ajax-boot/config"
	"github.com/SaiNageswarS/go-ajax-boot/i18n"
	"github.com/SaiNageswarS/go-ajax-boot/logger"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed translations/messages.ini
var builtinMessages []byte

var (
	sqlOpen      = sql.Open
	connectMongo = i18n.ConnectMongoSource
)

// loadCatalog merges the built-in messages with the configured catalog file,
// SQL table and Mongo collection, in that order.
func loadCatalog(ctx context.Context, cfg *config.BootConfig) (*i18n.Catalog, error) {
	defaultLocale, err := language.Parse(cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("default locale: %w", err)
	}

	sources := []i18n.Source{i18n.INISource{Data: builtinMessages}}
	if cfg.CatalogPath != "" {
		sources = append(sources, i18n.INISource{Path: cfg.CatalogPath})
	}

	if cfg.CatalogDSN != "" {
		db, err := sqlOpen("postgres", cfg.CatalogDSN)
		if err != nil {
			return nil, fmt.Errorf("open catalog db: %w", err)
		}
		defer db.Close()
		sources = append(sources, i18n.SQLSource{DB: db})
	}

	if cfg.MongoUri != "" {
		src, client, err := connectMongo(ctx, cfg.MongoUri, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("Failed to disconnect mongo", zap.Error(err))
			}
		}()
		sources = append(sources, src)
	}

	catalog := i18n.NewCatalog(defaultLocale)
	if err := catalog.Load(ctx, sources...); err != nil {
		return nil, err
	}
	return catalog, nil
}

// CheckCatalog prints, per domain, the keys the default locale has and locale
// lacks. It fails when any key is missing.
func CheckCatalog(ctx context.Context, out io.Writer, configPath, locale string) error {
	cfg := &AppConfig{}
	if err := config.LoadConfig(configPath, cfg); err != nil {
		return err
	}

	target, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("locale: %w", err)
	}

	catalog, err := loadCatalog(ctx, &cfg.BootConfig)
	if err != nil {
		return err
	}
	return reportMissing(out, catalog, target)
}

func reportMissing(out io.Writer, catalog *i18n.Catalog, target language.Tag) error {
	total := 0
	for _, domain := range catalog.Domains() {
		missing := catalog.Missing(domain, catalog.DefaultLocale(), target)
		if len(missing) == 0 {
			continue
		}
		total += len(missing)
		fmt.Fprintf(out, "%s: %s\n", domain, strings.Join(missing, ", "))
	}

	if total > 0 {
		return fmt.Errorf("%d translation(s) missing for %s", total, target)
	}
	fmt.Fprintf(out, "catalog complete for %s\n", target)
	return nil
}
