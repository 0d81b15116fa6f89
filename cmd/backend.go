package cmd

import (
	"fmt"

	"github.com/fdumary/HawkEye/internal/audit"
	"github.com/fdumary/HawkEye/internal/config"
	"github.com/fdumary/HawkEye/internal/credential"
	"github.com/fdumary/HawkEye/internal/database/mock"
	"github.com/fdumary/HawkEye/internal/database/postgres"
	"github.com/fdumary/HawkEye/internal/database/sqlite"
	"github.com/fdumary/HawkEye/internal/web/middleware"
)

// backend bundles the storage implementations selected by the
// configured database driver.
type backend struct {
	credentials credential.Store
	sessions    middleware.SessionRepository
	recorder    audit.Recorder
	close       func() error
}

func openBackend(cfg *config.Config) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Initialize(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		return &backend{
			credentials: postgres.NewCredentialStore(pool),
			sessions:    postgres.NewSessionRepository(pool),
			recorder:    postgres.NewAuditRecorder(pool),
			close:       pool.Close,
		}, nil

	case config.DriverSQLite, "":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		return &backend{
			credentials: sqlite.NewCredentialStore(db),
			sessions:    sqlite.NewSessionRepository(db),
			recorder:    sqlite.NewAuditRecorder(db),
			close:       db.Close,
		}, nil

	case config.DriverMemory:
		// Nothing survives a restart with the memory driver.
		return &backend{
			credentials: mock.NewCredentialStore(),
			sessions:    mock.NewSessionRepository(),
			recorder:    mock.NewAuditRecorder(),
			close:       func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
