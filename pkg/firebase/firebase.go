package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/discgolf/backend/pkg/logger"
	"google.golang.org/api/option"
)

var (
	ErrNoCredentials      = errors.New("firebase credentials path not provided")
	ErrCredentialsMissing = errors.New("firebase credentials file not found")
)

// App holds the Firebase app and the auth client used to verify ID tokens at login
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase builds the app from a service account file. Only the auth client is used; tokens are
// verified once at login and exchanged for the API's own JWT.
func InitFirebase(ctx context.Context, credentialsPath string, log *logger.Logger) (*App, error) {
	if err := checkCredentials(credentialsPath); err != nil {
		return nil, err
	}

	firebaseApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}

	log.Info("firebase login enabled", "credentials", credentialsPath)
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

func checkCredentials(path string) error {
	if path == "" {
		return ErrNoCredentials
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w at %s", ErrCredentialsMissing, path)
		}
		return fmt.Errorf("stat firebase credentials: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("firebase credentials path %s is a directory", path)
	}
	return nil
}
