// Package secret resolves credentials (API keys, gateway tokens) stored as
// scy secrets.
package secret

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// Service reveals and seals plain-text secrets
type Service struct {
	scy *scy.Service
}

// Reveal loads the secret at sourceURL, decrypting it with key when set.
func (s *Service) Reveal(ctx context.Context, sourceURL, key string) (string, error) {
	resource := scy.NewResource(nil, sourceURL, key)
	secret, err := s.scy.Load(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("failed to load secret from %s: %w", sourceURL, err)
	}
	return strings.TrimSpace(secret.String()), nil
}

// Seal stores plain at destURL, encrypted with key when set.
func (s *Service) Seal(ctx context.Context, destURL, key, plain string) error {
	resource := scy.NewResource(nil, destURL, key)
	if err := s.scy.Store(ctx, scy.NewSecret(plain, resource)); err != nil {
		return fmt.Errorf("failed to store secret at %s: %w", destURL, err)
	}
	return nil
}

// Resolve returns value when set, otherwise the secret revealed from sourceURL.
func (s *Service) Resolve(ctx context.Context, value, sourceURL, key string) (string, error) {
	if value != "" || sourceURL == "" {
		return value, nil
	}
	return s.Reveal(ctx, sourceURL, key)
}

func New() *Service {
	return &Service{scy: scy.New()}
}
