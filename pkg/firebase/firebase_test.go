package firebase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/anonto42/discgolf/backend/pkg/logger"
)

func TestInitFirebaseRejectsBadCredentials(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		want error
	}{
		{"empty path", "", ErrNoCredentials},
		{"missing file", filepath.Join(dir, "service-account.json"), ErrCredentialsMissing},
		{"directory", dir, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := InitFirebase(context.Background(), tt.path, logger.Nop())
			if err == nil || app != nil {
				t.Fatalf("InitFirebase(%q) = %v, %v; want error", tt.path, app, err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
