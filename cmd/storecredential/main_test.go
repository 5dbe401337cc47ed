package main

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqliteadapter "github.com/ericfisherdev/studyassistant/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/studyassistant/internal/application"
	"github.com/ericfisherdev/studyassistant/internal/domain/port/driven"
)

const testSecretKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestReadKey(t *testing.T) {
	key, err := readKey(strings.NewReader("  AIza-line  \nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "AIza-line", key)

	key, err = readKey(strings.NewReader("AIza-no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "AIza-no-newline", key)

	_, err = readKey(strings.NewReader("   \n"))
	require.Error(t, err)
}

func TestRun_RequiresSecretKey(t *testing.T) {
	t.Setenv("STUDYASSISTANT_SECRET_KEY", "")
	t.Setenv("STUDYASSISTANT_DB_PATH", filepath.Join(t.TempDir(), "test.db"))

	err := run(context.Background(), strings.NewReader("AIza-test\n"), false)

	require.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}

func TestRun_StoresAndDeletes(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	t.Setenv("STUDYASSISTANT_SECRET_KEY", testSecretKey)
	t.Setenv("STUDYASSISTANT_DB_PATH", dbPath)

	require.NoError(t, run(context.Background(), strings.NewReader("AIza-stored\n"), false))
	assert.Equal(t, "AIza-stored", storedKey(t, dbPath))

	require.NoError(t, run(context.Background(), strings.NewReader(""), true))
	assert.Empty(t, storedKey(t, dbPath))
}

func storedKey(t *testing.T, dbPath string) string {
	t.Helper()
	ctx := context.Background()

	db, err := sqliteadapter.NewDB(ctx, dbPath)
	require.NoError(t, err)
	defer db.Close()

	key, err := hex.DecodeString(testSecretKey)
	require.NoError(t, err)

	v, err := sqliteadapter.NewCredentialRepo(db, key).Get(ctx, application.CredentialService)
	require.NoError(t, err)
	return v
}
