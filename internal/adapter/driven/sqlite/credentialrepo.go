package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ericfisherdev/studyassistant/internal/domain/port/driven"
)

var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo stores service credentials sealed with AES-256-GCM. The
// service name is bound as additional data, so a value copied to another
// service's row does not open.
type CredentialRepo struct {
	db      *DB
	aead    cipher.AEAD
	initErr error
}

// NewCredentialRepo creates a CredentialRepo. A nil key disables Get and Set,
// which then return driven.ErrEncryptionKeyNotSet. Delete always works.
func NewCredentialRepo(db *DB, key []byte) *CredentialRepo {
	r := &CredentialRepo{db: db}
	if len(key) == 0 {
		r.initErr = driven.ErrEncryptionKeyNotSet
		return r
	}
	r.aead, r.initErr = newAEAD(key)
	return r
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init credential cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init credential cipher: %w", err)
	}
	return gcm, nil
}

// Set seals plaintext and upserts it under service.
func (r *CredentialRepo) Set(ctx context.Context, service, plaintext string) error {
	if r.initErr != nil {
		return r.initErr
	}

	sealed, err := r.seal(service, plaintext)
	if err != nil {
		return fmt.Errorf("seal credential %q: %w", service, err)
	}

	const query = `INSERT INTO credentials (service, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.Writer.ExecContext(ctx, query, service, sealed); err != nil {
		return fmt.Errorf("set credential %q: %w", service, err)
	}
	return nil
}

// Get returns the plaintext for service, or "" when none is stored.
func (r *CredentialRepo) Get(ctx context.Context, service string) (string, error) {
	if r.initErr != nil {
		return "", r.initErr
	}

	var sealed string
	err := r.db.Reader.QueryRowContext(ctx, `SELECT value FROM credentials WHERE service = ?`, service).Scan(&sealed)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("get credential %q: %w", service, err)
	}

	plaintext, err := r.open(service, sealed)
	if err != nil {
		return "", fmt.Errorf("decrypt credential %q: %w", service, err)
	}
	return plaintext, nil
}

// Delete removes the credential for service. Deleting a missing one is not an error.
func (r *CredentialRepo) Delete(ctx context.Context, service string) error {
	if _, err := r.db.Writer.ExecContext(ctx, `DELETE FROM credentials WHERE service = ?`, service); err != nil {
		return fmt.Errorf("delete credential %q: %w", service, err)
	}
	return nil
}

// seal returns base64(nonce || ciphertext || tag).
func (r *CredentialRepo) seal(service, plaintext string) (string, error) {
	nonce := make([]byte, r.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := r.aead.Seal(nonce, nonce, []byte(plaintext), []byte(service))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (r *CredentialRepo) open(service, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode stored value: %w", err)
	}

	n := r.aead.NonceSize()
	if len(data) < n {
		return "", errors.New("stored value too short")
	}

	plaintext, err := r.aead.Open(nil, data[:n], data[n:], []byte(service))
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plaintext), nil
}
