package storage

import (
	"fmt"

	"github.com/opheus2/form-schema-validator/pkg/audit"
	"github.com/opheus2/form-schema-validator/pkg/config"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
)

// Open creates the backend selected by cfg.Driver.
func Open(cfg *config.AuditConfig, logger *logging.Logger) (audit.Storage, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStorage(), nil
	case DriverModernc, DriverCgo:
		sc := DefaultSQLiteConfig()
		sc.Driver = cfg.Driver
		sc.Path = cfg.Path
		sc.BusyTimeout = cfg.WriteTimeout
		return NewSQLiteStorage(sc, logger)
	default:
		return nil, fmt.Errorf("unknown audit driver %q", cfg.Driver)
	}
}
