package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/gcbaptista/abstract-retrieval/config"
	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	"github.com/gcbaptista/abstract-retrieval/internal/loader"
	"github.com/gcbaptista/abstract-retrieval/internal/logger"
	"github.com/gcbaptista/abstract-retrieval/services"
)

// Engine manages the named collections served by the process.
// It implements the services.CollectionManager interface.
type Engine struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	dataDir     string
	loads       singleflight.Group
	log         *slog.Logger
}

// NewEngine creates the collection registry and restores any snapshots found
// under dataDir. An empty dataDir disables persistence.
func NewEngine(dataDir string) *Engine {
	eng := &Engine{
		collections: make(map[string]*Collection),
		dataDir:     dataDir,
		log:         logger.WithComponent("engine"),
	}
	if dataDir != "" {
		eng.loadSnapshotsFromDisk()
	}
	return eng
}

// AddCollection registers a collection built by the caller.
func (e *Engine) AddCollection(c *Collection) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := c.settings.Name
	if !config.IsSafeCollectionName(name) {
		return internalErrors.NewValidationError("name", fmt.Sprintf("collection name '%s' cannot be used as a directory", name))
	}
	if _, exists := e.collections[name]; exists {
		return internalErrors.NewCollectionAlreadyExistsError(name)
	}
	e.collections[name] = c
	e.log.Info("Collection registered", "collection", name, "documents", c.catalog.Len(), "terms", c.invertedIndex.Len())
	return nil
}

// LoadCollection reads a collection's inputs from dir and registers it.
func (e *Engine) LoadCollection(settings config.CollectionSettings, dir string) error {
	return e.LoadCollectionContext(context.Background(), settings, dir)
}

// LoadCollectionContext is LoadCollection with a caller-supplied context.
// Concurrent loads of the same name are collapsed into one.
func (e *Engine) LoadCollectionContext(ctx context.Context, settings config.CollectionSettings, dir string) error {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return internalErrors.NewValidationError("settings", strings.Join(problems, "; "))
	}
	if e.has(settings.Name) {
		return internalErrors.NewCollectionAlreadyExistsError(settings.Name)
	}

	_, err, _ := e.loads.Do(settings.Name, func() (any, error) {
		invIndex, catalog, err := loader.Load(ctx, settings, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load collection '%s' from %s: %w", settings.Name, dir, err)
		}
		c, err := NewCollection(settings, invIndex, catalog)
		if err != nil {
			return nil, err
		}
		return nil, e.AddCollection(c)
	})
	return err
}

// LoadCollections loads every configured source concurrently. Sources whose name
// is already registered, for example restored from a snapshot, are skipped.
func (e *Engine) LoadCollections(ctx context.Context, sources []config.CollectionSource) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		if e.has(src.Settings.Name) {
			e.log.Info("Collection restored from snapshot, skipping source", "collection", src.Settings.Name, "dir", src.Dir)
			continue
		}
		src := src
		g.Go(func() error {
			return e.LoadCollectionContext(gctx, src.Settings, src.Dir)
		})
	}
	return g.Wait()
}

// GetCollection retrieves a collection by its name.
func (e *Engine) GetCollection(name string) (services.CollectionAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c, exists := e.collections[name]
	if !exists {
		return nil, internalErrors.NewCollectionNotFoundError(name)
	}
	return c, nil
}

// ListCollections returns the names of all loaded collections in lexical order.
func (e *Engine) ListCollections() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.collections))
	for name := range e.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeleteCollection unloads a collection and removes its snapshot, if any.
func (e *Engine) DeleteCollection(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.collections[name]; !exists {
		return internalErrors.NewCollectionNotFoundError(name)
	}

	snapshotPath, err := e.snapshotDir(name)
	if err != nil {
		return err
	}
	delete(e.collections, name)

	if e.dataDir != "" {
		if err := os.RemoveAll(snapshotPath); err != nil {
			return fmt.Errorf("failed to delete snapshot directory %s: %w", snapshotPath, err)
		}
	}
	e.log.Info("Collection deleted", "collection", name)
	return nil
}

func (e *Engine) has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.collections[name]
	return ok
}
