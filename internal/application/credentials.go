package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/studyassistant/internal/domain/model"
	"github.com/ericfisherdev/studyassistant/internal/domain/port/driven"
)

// CredentialService is the name the API key is stored under in the
// encrypted credential store.
const CredentialService = "gemini"

// ErrCredentialMissing is returned when no source provides an API key.
var ErrCredentialMissing = errors.New("google API key not found: set GOOGLE_API_KEY, add it to the credentials file, or save it in the secrets store")

// CredentialLoader resolves the API credential once at startup.
// Sources are consulted in order: environment, credentials file, secrets
// store. The first non-blank value wins.
type CredentialLoader struct {
	envValue string
	envName  string
	file     driven.SecretReader
	store    driven.CredentialStore
	logger   *slog.Logger
}

// NewCredentialLoader creates a loader. envValue is the already-read value of
// the environment variable envName, which is also the key looked up in file.
// file and store may be nil.
func NewCredentialLoader(envName, envValue string, file driven.SecretReader, store driven.CredentialStore, logger *slog.Logger) *CredentialLoader {
	return &CredentialLoader{
		envValue: envValue,
		envName:  envName,
		file:     file,
		store:    store,
		logger:   logger,
	}
}

// Load returns the first credential found. It returns ErrCredentialMissing when
// every source is empty, and a wrapped error when a source exists but cannot be read.
func (l *CredentialLoader) Load(ctx context.Context) (model.Credential, error) {
	if v := strings.TrimSpace(l.envValue); v != "" {
		return model.Credential{Value: v, Source: model.CredentialFromEnv}, nil
	}

	if l.file != nil {
		v, err := l.file.ReadSecret(l.envName)
		if err != nil {
			return model.Credential{}, fmt.Errorf("load credential from file: %w", err)
		}
		if v = strings.TrimSpace(v); v != "" {
			return model.Credential{Value: v, Source: model.CredentialFromFile}, nil
		}
	}

	if l.store != nil {
		v, err := l.store.Get(ctx, CredentialService)
		switch {
		case errors.Is(err, driven.ErrEncryptionKeyNotSet):
			l.logger.Debug("secrets store skipped", "reason", err)
		case err != nil:
			return model.Credential{}, fmt.Errorf("load credential from store: %w", err)
		case strings.TrimSpace(v) != "":
			return model.Credential{Value: strings.TrimSpace(v), Source: model.CredentialFromStore}, nil
		}
	}

	return model.Credential{}, ErrCredentialMissing
}
