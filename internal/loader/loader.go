// Package loader reads a collection's external inputs from disk: the inverted
// index JSON, the metadata catalog JSON and one abstract text file per document.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/abstract-retrieval/config"
	"github.com/gcbaptista/abstract-retrieval/index"
	"github.com/gcbaptista/abstract-retrieval/internal/persistence"
	"github.com/gcbaptista/abstract-retrieval/model"
	"github.com/gcbaptista/abstract-retrieval/store"
)

// maxConcurrentReads bounds the number of abstract files read at once.
const maxConcurrentReads = 8

// Load reads and validates the inputs of one collection rooted at dir.
// File names come from settings, which should have had ApplyDefaults called.
// The index and metadata files are read concurrently; every construction
// failure is returned wrapped with the file it came from.
func Load(ctx context.Context, settings config.CollectionSettings, dir string) (*index.InvertedIndex, *store.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	indexPath := filepath.Join(dir, settings.IndexFile)
	metadataPath := filepath.Join(dir, settings.MetadataFile)

	var (
		invIndex *index.InvertedIndex
		docs     []model.Document
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invIndex, err = LoadIndex(indexPath)
		return err
	})
	g.Go(func() error {
		var err error
		docs, err = LoadMetadata(metadataPath)
		if err != nil {
			return err
		}
		return loadAbstracts(gctx, docs, filepath.Join(dir, settings.AbstractsDir), settings.AbstractPattern)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	catalog, err := store.NewCatalog(docs)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", metadataPath, err)
	}

	if pruned := invIndex.Pruned(); pruned > 0 {
		slog.Warn("Pruned zero-frequency postings", "file", indexPath, "count", pruned)
	}

	slog.Info("Collection inputs loaded",
		"collection", settings.Name,
		"terms", invIndex.Len(),
		"documents", catalog.Len())
	return invIndex, catalog, nil
}

// LoadIndex reads an inverted index JSON object of term -> {DocumentId: frequency}.
func LoadIndex(path string) (*index.InvertedIndex, error) {
	var raw map[string]map[string]int
	if err := persistence.LoadJSON(path, &raw); err != nil {
		return nil, err
	}
	invIndex, err := index.NewInvertedIndex(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return invIndex, nil
}

// LoadMetadata reads the metadata catalog JSON array.
func LoadMetadata(path string) ([]model.Document, error) {
	var docs []model.Document
	if err := persistence.LoadJSON(path, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// LoadCatalog reads the metadata catalog of the collection rooted at dir and
// fills in abstracts, without touching the inverted index.
func LoadCatalog(ctx context.Context, settings config.CollectionSettings, dir string) (*store.Catalog, error) {
	metadataPath := filepath.Join(dir, settings.MetadataFile)
	docs, err := LoadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}
	if err := loadAbstracts(ctx, docs, filepath.Join(dir, settings.AbstractsDir), settings.AbstractPattern); err != nil {
		return nil, err
	}
	catalog, err := store.NewCatalog(docs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", metadataPath, err)
	}
	return catalog, nil
}

// loadAbstracts fills in Abstract for documents that do not carry one. The file of
// the i-th document (1-based, catalog order) is named by pattern. A missing file
// gets model.MissingAbstract; any other read error fails the load.
func loadAbstracts(ctx context.Context, docs []model.Document, dir, pattern string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i := range docs {
		if docs[i].Abstract != "" {
			continue
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, fmt.Sprintf(pattern, i+1))
			data, err := os.ReadFile(path) // #nosec G304 -- path is built from operator configuration
			switch {
			case errors.Is(err, os.ErrNotExist):
				slog.Warn("Abstract file not found", "document_id", docs[i].DocumentID, "path", path)
				docs[i].Abstract = model.MissingAbstract
			case err != nil:
				return fmt.Errorf("failed to read abstract %s: %w", path, err)
			default:
				docs[i].Abstract = string(data)
			}
			return nil
		})
	}
	return g.Wait()
}
