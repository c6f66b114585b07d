package cloud

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

type GCP struct {
	projectID string

	secretsOnce sync.Once
	secretsErr  error
	Secrets     SecretManagerClient
}

func ProvideGCP(projectID string) *GCP {
	return &GCP{projectID: projectID}
}

// SecretManagerClient is the part of the Secret Manager API used here.
type SecretManagerClient interface {
	ListSecrets(ctx context.Context, req *secretmanagerpb.ListSecretsRequest) SecretIterator
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// SecretIterator yields secrets until iterator.Done.
type SecretIterator interface {
	Next() (*secretmanagerpb.Secret, error)
}

func (g *GCP) LoadSecretsIntoEnv(ctx context.Context) error {
	if g.projectID == "" {
		return errors.New("gcp_project_id config not set")
	}
	if err := g.EnsureSecrets(ctx); err != nil {
		logger.Error("Failed to create secretmanager client", zap.Error(err))
		return err
	}

	it := g.Secrets.ListSecrets(ctx, &secretmanagerpb.ListSecretsRequest{
		Parent: fmt.Sprintf("projects/%s", g.projectID),
	})

	var secretList []string
	for {
		secret, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list secrets: %w", err)
		}

		result, err := g.Secrets.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: fmt.Sprintf("%s/versions/latest", secret.Name),
		})
		if err != nil {
			logger.Error("Failed to access secret version", zap.String("secret", secret.Name), zap.Error(err))
			continue
		}

		secretName := envName(secret.Name[strings.LastIndex(secret.Name, "/")+1:])
		_ = os.Setenv(secretName, string(result.GetPayload().GetData()))
		secretList = append(secretList, secretName)
	}

	logger.Info("Successfully loaded GCP secrets into environment variables.", zap.Strings("secrets", secretList))
	return nil
}

func (g *GCP) EnsureSecrets(ctx context.Context) error {
	if g.Secrets != nil {
		return nil
	}

	g.secretsOnce.Do(func() {
		g.Secrets, g.secretsErr = newSecretManagerClient(ctx)
	})
	return g.secretsErr
}

var newSecretManagerClient = func(ctx context.Context) (SecretManagerClient, error) {
	c, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &gcpSecretClient{c: c}, nil
}

type gcpSecretClient struct {
	c *secretmanager.Client
}

func (g *gcpSecretClient) ListSecrets(ctx context.Context, req *secretmanagerpb.ListSecretsRequest) SecretIterator {
	return g.c.ListSecrets(ctx, req)
}

func (g *gcpSecretClient) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	return g.c.AccessSecretVersion(ctx, req)
}
