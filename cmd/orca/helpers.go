package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/storage"
)

// openStorage opens the configured SQLite database. Callers own Close.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "orca", "orca.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// parseKind maps a user-supplied catalog family name to a RecordKind,
// accepting the common plural and Portuguese spellings.
func parseKind(raw string) (model.RecordKind, error) {
	switch raw {
	case "insumo", "insumos", "input":
		return model.KindInsumo, nil
	case "composition", "compositions", "composicao", "composição":
		return model.KindComposition, nil
	default:
		return "", fmt.Errorf("unknown catalog family %q (want insumo or composition)", raw)
	}
}
