// Package cloud copies secrets from a cloud secret store into the process
// environment, where auth and mailer read them.
package cloud

import (
	"context"
	"strings"

	"github.com/SaiNageswarS/go-ajax-boot/config"
)

type SecretStore interface {
	LoadSecretsIntoEnv(ctx context.Context) error
}

// StoresFor returns the secret stores enabled in c.
func StoresFor(c *config.BootConfig) []SecretStore {
	var stores []SecretStore
	if c.AzureKeyVaultName != "" {
		stores = append(stores, ProvideAzure(c.AzureKeyVaultName))
	}
	if c.GcpProjectId != "" {
		stores = append(stores, ProvideGCP(c.GcpProjectId))
	}
	return stores
}

// LoadSecrets loads every store in order; later stores win.
func LoadSecrets(ctx context.Context, stores ...SecretStore) error {
	for _, s := range stores {
		if err := s.LoadSecretsIntoEnv(ctx); err != nil {
			return err
		}
	}
	return nil
}

// envName maps a store secret name to an environment variable name. Key Vault
// forbids underscores, so "SMTP-PASSWORD" is exported as SMTP_PASSWORD.
func envName(secretName string) string {
	return strings.ReplaceAll(secretName, "-", "_")
}
