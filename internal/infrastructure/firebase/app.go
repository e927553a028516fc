package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"foodstore/pkg/config"
	"foodstore/pkg/logger"
)

// CredentialsOption prefers inline service-account JSON and falls back to
// the key file path.
func CredentialsOption(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)), nil
	}

	path := cfg.FirebaseServiceAccountPath
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("service account file %s: %w", path, err)
	}
	logger.Info("Using Firebase service account from file: %s", path)
	return option.WithCredentialsFile(path), nil
}

// Clients bundles the Firebase services the API needs.
type Clients struct {
	Auth      *AuthClient
	Firestore *firestore.Client
}

func NewClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	opt, err := CredentialsOption(cfg)
	if err != nil {
		return nil, err
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}

	store, err := NewFirestore(ctx, cfg, opt)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Auth:      NewAuthClient(authClient),
		Firestore: store,
	}, nil
}

func NewFirestore(ctx context.Context, cfg *config.Config, opt option.ClientOption) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}
