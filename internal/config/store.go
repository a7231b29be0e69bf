package config

import "fmt"

type StoreDriver string

const (
	StoreMemory   StoreDriver = "memory"
	StoreSQLite   StoreDriver = "sqlite"
	StorePostgres StoreDriver = "postgres"
)

type Store struct {
	Driver     StoreDriver
	SQLitePath string
}

func NewStore() (*Store, error) {
	driver := StoreDriver(envOr("STORE_DRIVER", string(StoreMemory)))
	switch driver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}

	store := &Store{
		Driver:     driver,
		SQLitePath: envOr("SQLITE_PATH", "data/minefield.db"),
	}

	return store, nil
}
