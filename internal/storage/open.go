package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/habit-tasks/internal/config"
	"github.com/Veraticus/habit-tasks/internal/suggester"
	"github.com/spf13/afero"
)

// Store is a suggester store that must be closed after use.
type Store interface {
	suggester.Store
	io.Closer
}

// Open creates the store selected by cfg and brings its schema up to date.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := NewSQLiteStorage(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return s, nil
	case config.DriverFile:
		return NewFileStore(afero.NewOsFs(), cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
