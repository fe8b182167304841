package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gcbaptista/abstract-retrieval/config"
	"github.com/gcbaptista/abstract-retrieval/index"
	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/internal/persistence"
	"github.com/gcbaptista/abstract-retrieval/store"
)

const (
	dataDirPerm       = 0750
	settingsFile      = "settings.gob"
	invertedIndexFile = "inverted_index.gob"
	catalogFile       = "catalog.gob"
)

// ErrPersistenceDisabled is returned by PersistCollection when the engine has no data directory.
var ErrPersistenceDisabled = errors.New("persistence disabled: no data directory configured")

// loadSnapshotsFromDisk restores every collection snapshot under the data directory.
// A snapshot that fails to load or validate is skipped with a warning.
func (e *Engine) loadSnapshotsFromDisk() {
	e.log.Info("Loading collection snapshots", "dir", e.dataDir)

	if err := os.MkdirAll(e.dataDir, dataDirPerm); err != nil {
		e.log.Warn("Could not create data directory, snapshots disabled", "dir", e.dataDir, "error", err)
		return
	}

	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		e.log.Warn("Failed to read data directory, no snapshots loaded", "dir", e.dataDir, "error", err)
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		name := item.Name()
		c, err := loadSnapshot(filepath.Join(e.dataDir, name))
		if err != nil {
			e.log.Warn("Skipping collection snapshot", "collection", name, "error", err)
			continue
		}
		if c.settings.Name != name {
			e.log.Warn("Snapshot name does not match its directory, skipping", "settings_name", c.settings.Name, "dir", name)
			continue
		}
		e.collections[name] = c
		e.log.Info("Collection restored from snapshot", "collection", name, "documents", c.catalog.Len())
	}
}

// loadSnapshot reads and re-validates one snapshot directory. The index and
// catalog gob decoders re-run construction-time validation.
func loadSnapshot(path string) (*Collection, error) {
	var settings config.CollectionSettings
	if err := persistence.LoadGob(filepath.Join(path, settingsFile), &settings); err != nil {
		return nil, err
	}
	invIndex := &index.InvertedIndex{}
	if err := persistence.LoadGob(filepath.Join(path, invertedIndexFile), invIndex); err != nil {
		return nil, err
	}
	catalog := &store.Catalog{}
	if err := persistence.LoadGob(filepath.Join(path, catalogFile), catalog); err != nil {
		return nil, err
	}
	return NewCollection(settings, invIndex, catalog)
}

// PersistCollection writes a snapshot of a loaded collection to the data directory.
func (e *Engine) PersistCollection(name string) error {
	if e.dataDir == "" {
		return ErrPersistenceDisabled
	}

	e.mu.RLock()
	c, exists := e.collections[name]
	e.mu.RUnlock()
	if !exists {
		return internalErrors.NewCollectionNotFoundError(name)
	}

	path, err := e.snapshotDir(name)
	if err != nil {
		return err
	}
	if err := saveSnapshot(path, c); err != nil {
		return err
	}
	e.log.Info("Collection snapshot persisted", "collection", name)
	return nil
}

// snapshotDir returns the directory holding name's snapshot. Names that would
// resolve to the data directory itself or outside it are refused.
func (e *Engine) snapshotDir(name string) (string, error) {
	if !config.IsSafeCollectionName(name) {
		return "", internalErrors.NewValidationError("name", fmt.Sprintf("collection name '%s' cannot be used as a directory", name))
	}
	return filepath.Join(e.dataDir, name), nil
}

func saveSnapshot(path string, c *Collection) error {
	if err := os.MkdirAll(path, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	if err := persistence.SaveGob(filepath.Join(path, settingsFile), c.settings); err != nil {
		return fmt.Errorf("failed to save settings for collection %s: %w", c.settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(path, invertedIndexFile), c.invertedIndex); err != nil {
		return fmt.Errorf("failed to save inverted index for collection %s: %w", c.settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(path, catalogFile), c.catalog); err != nil {
		return fmt.Errorf("failed to save catalog for collection %s: %w", c.settings.Name, err)
	}
	return nil
}
