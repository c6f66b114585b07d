package cloud

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"go.uber.org/zap"
)

type Azure struct {
	vaultName string

	kvOnce   sync.Once
	kvErr    error
	KvClient keyVaultClient
}

func ProvideAzure(vaultName string) *Azure {
	return &Azure{vaultName: vaultName}
}

func (a *Azure) LoadSecretsIntoEnv(ctx context.Context) error {
	logger.Info("Loading Azure Keyvault secrets into environment variables.")

	if err := a.EnsureKV(ctx); err != nil {
		logger.Error("Failed to ensure Keyvault client", zap.Error(err))
		return err
	}

	pager := a.KvClient.NewListSecretPropertiesPager(nil)
	var secretList []string

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			logger.Error("Failed to get next page of secrets", zap.Error(err))
			return err
		}
		for _, secret := range page.Value {
			if secret.ID == nil {
				continue
			}
			if secret.Attributes != nil && secret.Attributes.Enabled != nil && !*secret.Attributes.Enabled {
				continue
			}

			resp, err := a.KvClient.GetSecret(ctx, secret.ID.Name(), secret.ID.Version(), nil)
			if err != nil {
				logger.Error("Failed to get secret", zap.String("secret", secret.ID.Name()), zap.Error(err))
				continue
			}
			if resp.Value == nil {
				continue
			}

			name := envName(secret.ID.Name())
			_ = os.Setenv(name, *resp.Value)
			secretList = append(secretList, name)
		}
	}

	logger.Info("Successfully loaded Azure Keyvault secrets into environment variables.", zap.Strings("secrets", secretList))
	return nil
}

// azure clients

func (a *Azure) EnsureKV(ctx context.Context) error {
	if a.KvClient != nil {
		return nil
	}

	a.kvOnce.Do(func() {
		a.KvClient, a.kvErr = getKeyvaultClient(a.vaultName)
	})
	return a.kvErr
}

func getKeyvaultClient(keyVaultName string) (keyVaultClient, error) {
	if keyVaultName == "" {
		return nil, errors.New("azure_key_vault_name config not set")
	}

	keyVaultUrl := fmt.Sprintf("https://%s.vault.azure.net/", keyVaultName)

	cred, err := newDefaultCred()
	if err != nil {
		return nil, err
	}

	client, err := newKVClient(keyVaultUrl, cred)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// factory variables – default to real SDK functions
var (
	newDefaultCred = func() (*azidentity.DefaultAzureCredential, error) {
		return azidentity.NewDefaultAzureCredential(nil)
	}
	newKVClient = func(url string, cred *azidentity.DefaultAzureCredential) (keyVaultClient, error) {
		return azsecrets.NewClient(url, cred, nil)
	}
)

type keyVaultClient interface {
	NewListSecretPropertiesPager(*azsecrets.ListSecretPropertiesOptions) *runtime.Pager[azsecrets.ListSecretPropertiesResponse]
	GetSecret(context.Context, string, string, *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}
