// Package storage selects a persistent store backend from configuration.
package storage

import (
	"fmt"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/storage/memory"
	"github.com/okabet/tickerscope/internal/storage/surrealdb"
)

// Driver constants.
const (
	DriverSurrealDB = "surrealdb"
	DriverMemory    = "memory"
)

// NewStorageManager creates a storage manager based on the configuration.
// Supported drivers: "surrealdb" (default), "memory" (dev/test, not
// persisted across restarts).
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	driver := config.Storage.Driver
	if driver == "" {
		driver = DriverSurrealDB
	}

	switch driver {
	case DriverSurrealDB:
		return surrealdb.NewManager(logger, config)

	case DriverMemory:
		logger.Warn().Msg("Using in-memory storage; data will not survive a restart")
		return memory.NewManager(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %s (supported: surrealdb, memory)", driver)
	}
}
