package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	sqliteadapter "github.com/ericfisherdev/studyassistant/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/studyassistant/internal/application"
	"github.com/ericfisherdev/studyassistant/internal/config"
	"github.com/ericfisherdev/studyassistant/internal/domain/port/driven"
	"github.com/ericfisherdev/studyassistant/internal/logger"
)

func main() {
	del := flag.Bool("delete", false, "Remove the stored API key instead of writing one")
	flag.Parse()

	if err := run(context.Background(), os.Stdin, *del); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdin io.Reader, del bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if !cfg.HasSecretKey() {
		return driven.ErrEncryptionKeyNotSet
	}

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if _, err := sqliteadapter.RunMigrations(db.Writer, log); err != nil {
		return err
	}

	store := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)

	if del {
		if err := store.Delete(ctx, application.CredentialService); err != nil {
			return err
		}
		log.Info("credential deleted", "service", application.CredentialService, "db_path", cfg.DBPath)
		return nil
	}

	key, err := readKey(stdin)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, application.CredentialService, key); err != nil {
		return err
	}
	log.Info("credential stored", "service", application.CredentialService, "db_path", cfg.DBPath)
	return nil
}

// readKey returns the first line of r with surrounding whitespace removed.
func readKey(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read key from stdin: %w", err)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return "", errors.New("no API key on stdin")
	}
	return key, nil
}
