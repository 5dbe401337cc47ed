package application_test

import (
	"context"
	"sync"

	"github.com/ericfisherdev/studyassistant/internal/domain/model"
)

// mockGenerator implements driven.TextGenerator and records every prompt.
type mockGenerator struct {
	mu      sync.Mutex
	prompts []string
	text    string
	err     error
	block   chan struct{} // when non-nil, Generate waits for it to close
	deaf    bool          // when set, a blocked Generate ignores ctx
	entered chan struct{} // when non-nil, receives once per call on entry
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil && m.deaf {
		<-m.block
	} else if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.text, m.err
}

func (m *mockGenerator) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// mockInteractionStore implements driven.InteractionStore in memory.
type mockInteractionStore struct {
	mu      sync.Mutex
	records []model.Interaction
	err     error
}

func (m *mockInteractionStore) Record(_ context.Context, in model.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, in)
	return nil
}

func (m *mockInteractionStore) ListRecent(_ context.Context, limit int) ([]model.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.records) {
		limit = len(m.records)
	}
	return m.records[:limit], m.err
}

// mockSecretReader implements driven.SecretReader.
type mockSecretReader struct {
	values map[string]string
	err    error
}

func (m *mockSecretReader) ReadSecret(name string) (string, error) {
	return m.values[name], m.err
}

// mockCredentialStore implements driven.CredentialStore.
type mockCredentialStore struct {
	values map[string]string
	err    error
}

func (m *mockCredentialStore) Set(_ context.Context, service, plaintext string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[service] = plaintext
	return m.err
}

func (m *mockCredentialStore) Get(_ context.Context, service string) (string, error) {
	return m.values[service], m.err
}

func (m *mockCredentialStore) Delete(_ context.Context, service string) error {
	delete(m.values, service)
	return m.err
}
