package driven

import (
	"context"
	"errors"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore operations when
// STUDYASSISTANT_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set STUDYASSISTANT_SECRET_KEY")

// CredentialStore defines the driven port for encrypted credential persistence.
// The adapter layer is responsible for encryption/decryption; this interface
// operates on plaintext values at the domain boundary.
type CredentialStore interface {
	// Set stores or replaces the credential for the given service.
	// Returns ErrEncryptionKeyNotSet if the adapter has no encryption key.
	Set(ctx context.Context, service, plaintext string) error

	// Get retrieves the plaintext credential for the given service.
	// Returns ("", nil) if no credential exists for that service.
	// Returns ErrEncryptionKeyNotSet if the adapter has no encryption key.
	Get(ctx context.Context, service string) (string, error)

	// Delete removes the credential for the given service.
	Delete(ctx context.Context, service string) error
}

// SecretReader reads a named secret from a local source such as a JSON file.
// A missing source or key yields ("", nil).
type SecretReader interface {
	ReadSecret(name string) (string, error)
}
