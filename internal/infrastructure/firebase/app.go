package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"agrotrust/pkg/config"
	"agrotrust/pkg/logger"
)

// Credentials picks the service account from the inline JSON first, then the
// file path.
func Credentials(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseServiceAccount != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccount)), nil
	}

	if cfg.FirebaseServiceAccountPath == "" {
		return nil, fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH is required")
	}
	if _, err := os.Stat(cfg.FirebaseServiceAccountPath); err != nil {
		return nil, fmt.Errorf("service account file: %w", err)
	}
	logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
	return option.WithCredentialsFile(cfg.FirebaseServiceAccountPath), nil
}

// Clients bundles the Firebase services the API uses.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// NewClients initializes Firebase Auth, and Firestore when withFirestore is
// set.
func NewClients(ctx context.Context, cfg *config.Config, withFirestore bool) (*Clients, error) {
	opt, err := Credentials(cfg)
	if err != nil {
		return nil, err
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize Firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize Firebase Auth: %w", err)
	}

	clients := &Clients{Auth: authClient}
	if withFirestore {
		clients.Firestore, err = firestore.NewClient(ctx, cfg.FirebaseProject, opt)
		if err != nil {
			return nil, fmt.Errorf("create Firestore client: %w", err)
		}
	}
	return clients, nil
}

func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
