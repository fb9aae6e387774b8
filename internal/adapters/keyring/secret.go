package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"rozadaar/internal/ports"
)

// Store keeps the admin secret in the operating system's credential store
type Store struct {
	Service string
	User    string
}

// Ensure Store implements ports.SecretStore
var _ ports.SecretStore = (*Store)(nil)

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
)

// NewStore creates a store under the rozadaar service name
func NewStore() *Store {
	return &Store{
		Service: "rozadaar",
		User:    "admin",
	}
}

// Secret returns the stored secret, or "" when none was saved
func (s *Store) Secret() (string, error) {
	secret, err := keyringGet(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return secret, nil
}

// SaveSecret stores the secret, replacing any previous one
func (s *Store) SaveSecret(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return errors.New("secret is empty")
	}
	if err := keyringSet(s.Service, s.User, secret); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

// ClearSecret removes the stored secret. Clearing an absent secret is not an error.
func (s *Store) ClearSecret() error {
	err := keyringDelete(s.Service, s.User)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear keyring: %w", err)
	}
	return nil
}

// Resolve returns explicit when it is set and the stored secret otherwise.
// A keyring that cannot be read counts as holding no secret.
func Resolve(explicit string, store ports.SecretStore) string {
	if explicit != "" || store == nil {
		return explicit
	}
	secret, err := store.Secret()
	if err != nil {
		return ""
	}
	return secret
}
