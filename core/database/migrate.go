package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	coreconfig "github.com/evmeet/meetbot/core/config"
	"github.com/evmeet/meetbot/core/logger"
)

// RunMigrations applies all up migrations from the migrations directory.
func RunMigrations(cfg coreconfig.DatabaseConfig) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
	if err := WaitForPostgres(dsn, 30*time.Second); err != nil {
		logger.MIG.Error("db not ready",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("database not ready: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	sourceURL := "file://" + filepath.Join(cwd, "migrations")

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		logger.MIG.Error("init failed",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	fromVer, _, _ := m.Version()

	start := time.Now()
	upErr := m.Up()
	took := time.Since(start)

	switch upErr {
	case nil:
	case migrate.ErrNoChange:
		logger.MIG.Info("migrations summary",
			slog.String("event", "summary"),
			slog.Uint64("version", uint64(fromVer)),
			slog.Int("applied", 0),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return nil
	default:
		logger.MIG.Error("migration failed",
			slog.String("event", "apply"),
			slog.String("err", upErr.Error()),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	toVer, _, _ := m.Version()
	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return nil
}
