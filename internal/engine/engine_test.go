package engine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/abstract-retrieval/config"
	"github.com/gcbaptista/abstract-retrieval/index"
	"github.com/gcbaptista/abstract-retrieval/internal/engine"
	internalErrors "github.com/gcbaptista/abstract-retrieval/internal/errors"
	testutil "github.com/gcbaptista/abstract-retrieval/internal/testing"
	"github.com/gcbaptista/abstract-retrieval/model"
	"github.com/gcbaptista/abstract-retrieval/services"
	"github.com/gcbaptista/abstract-retrieval/store"
)

func TestEngine_AddGetList(t *testing.T) {
	eng := engine.NewEngine("")

	require.NoError(t, eng.AddCollection(testutil.CreateTestCollection(t, "b")))
	require.NoError(t, eng.AddCollection(testutil.CreateTestCollection(t, "a")))

	err := eng.AddCollection(testutil.CreateTestCollection(t, "a"))
	assert.True(t, errors.Is(err, internalErrors.ErrCollectionAlreadyExists))

	assert.Equal(t, []string{"a", "b"}, eng.ListCollections())

	c, err := eng.GetCollection("a")
	require.NoError(t, err)
	assert.Equal(t, "a", c.Settings().Name)

	_, err = eng.GetCollection("missing")
	assert.True(t, errors.Is(err, internalErrors.ErrCollectionNotFound))
}

func TestEngine_LoadCollection(t *testing.T) {
	eng := engine.NewEngine("")
	dir := testutil.WriteCollectionDir(t)

	require.NoError(t, eng.LoadCollection(config.CollectionSettings{Name: "artigos", CollectionSize: 20}, dir))

	c, err := eng.GetCollection("artigos")
	require.NoError(t, err)

	res, err := c.Search(services.SearchQuery{QueryString: "lgpd AND dados", Mode: services.ModeBoolean})
	require.NoError(t, err)
	assert.Equal(t, []string{"Artigo 01"}, res.DocumentIDs())

	doc, err := c.Document("Artigo 01")
	require.NoError(t, err)
	assert.Equal(t, "A LGPD regula o tratamento de dados pessoais.", doc.Abstract)

	doc, err = c.Document("Artigo 03")
	require.NoError(t, err)
	assert.Equal(t, model.MissingAbstract, doc.Abstract)

	err = eng.LoadCollection(config.CollectionSettings{Name: "artigos"}, dir)
	assert.True(t, errors.Is(err, internalErrors.ErrCollectionAlreadyExists))
}

func TestEngine_LoadCollection_Errors(t *testing.T) {
	eng := engine.NewEngine("")

	err := eng.LoadCollection(config.CollectionSettings{Name: ""}, t.TempDir())
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))

	err = eng.LoadCollection(config.CollectionSettings{Name: "empty"}, t.TempDir())
	require.Error(t, err)
	assert.Empty(t, eng.ListCollections())
}

func TestEngine_LoadCollections(t *testing.T) {
	eng := engine.NewEngine("")
	dir := testutil.WriteCollectionDir(t)

	sources := []config.CollectionSource{
		{Dir: dir, Settings: config.CollectionSettings{Name: "um"}},
		{Dir: dir, Settings: config.CollectionSettings{Name: "dois", CollectionSize: 20}},
	}
	require.NoError(t, eng.LoadCollections(context.Background(), sources))
	assert.Equal(t, []string{"dois", "um"}, eng.ListCollections())

	// already registered names are skipped
	require.NoError(t, eng.LoadCollections(context.Background(), sources))
}

func TestEngine_DeleteCollection(t *testing.T) {
	dataDir := t.TempDir()
	eng := engine.NewEngine(dataDir)
	require.NoError(t, eng.AddCollection(testutil.CreateTestCollection(t, "artigos")))
	require.NoError(t, eng.PersistCollection("artigos"))

	require.NoError(t, eng.DeleteCollection("artigos"))
	assert.Empty(t, eng.ListCollections())

	_, err := os.Stat(filepath.Join(dataDir, "artigos"))
	assert.True(t, os.IsNotExist(err))

	err = eng.DeleteCollection("artigos")
	assert.True(t, errors.Is(err, internalErrors.ErrCollectionNotFound))
}

func TestEngine_RejectsDotCollectionNames(t *testing.T) {
	parent := t.TempDir()
	dataDir := filepath.Join(parent, "data")
	sentinel := filepath.Join(parent, "keep.txt")
	require.NoError(t, os.WriteFile(sentinel, []byte("keep"), 0600))

	eng := engine.NewEngine(dataDir)
	require.NoError(t, eng.AddCollection(testutil.CreateTestCollection(t, "artigos")))
	require.NoError(t, eng.PersistCollection("artigos"))

	invIndex, err := index.NewInvertedIndex(testutil.SamplePostings())
	require.NoError(t, err)
	catalog, err := store.NewCatalog(testutil.SampleDocuments())
	require.NoError(t, err)

	for _, name := range []string{".", ".."} {
		t.Run(name, func(t *testing.T) {
			settings := config.CollectionSettings{Name: name, CollectionSize: 20}

			_, err := engine.NewCollection(settings, invIndex, catalog)
			assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))

			err = eng.LoadCollection(settings, testutil.WriteCollectionDir(t))
			assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))

			err = eng.PersistCollection(name)
			assert.True(t, errors.Is(err, internalErrors.ErrCollectionNotFound))

			err = eng.DeleteCollection(name)
			assert.True(t, errors.Is(err, internalErrors.ErrCollectionNotFound))
		})
	}

	assert.Equal(t, []string{"artigos"}, eng.ListCollections())
	assert.FileExists(t, sentinel)
	assert.FileExists(t, filepath.Join(dataDir, "artigos", "catalog.gob"))
	assert.NoFileExists(t, filepath.Join(parent, "settings.gob"))
	assert.NoFileExists(t, filepath.Join(dataDir, "settings.gob"))
}

func TestEngine_PersistAndRestore(t *testing.T) {
	dataDir := t.TempDir()
	eng := engine.NewEngine(dataDir)
	require.NoError(t, eng.AddCollection(testutil.CreateTestCollection(t, "artigos")))
	require.NoError(t, eng.PersistCollection("artigos"))

	restored := engine.NewEngine(dataDir)
	assert.Equal(t, []string{"artigos"}, restored.ListCollections())

	original, err := eng.GetCollection("artigos")
	require.NoError(t, err)
	c, err := restored.GetCollection("artigos")
	require.NoError(t, err)

	assert.Equal(t, original.Stats(), c.Stats())
	for _, q := range []string{"lgpd saude", "privacidade", "dados lgpd"} {
		want, err := original.Search(services.SearchQuery{QueryString: q, Mode: services.ModeVector})
		require.NoError(t, err)
		got, err := c.Search(services.SearchQuery{QueryString: q, Mode: services.ModeVector})
		require.NoError(t, err)
		assert.Equal(t, want.DocumentIDs(), got.DocumentIDs(), q)
	}
}

func TestEngine_PersistErrors(t *testing.T) {
	err := engine.NewEngine("").PersistCollection("artigos")
	assert.True(t, errors.Is(err, engine.ErrPersistenceDisabled))

	err = engine.NewEngine(t.TempDir()).PersistCollection("missing")
	assert.True(t, errors.Is(err, internalErrors.ErrCollectionNotFound))
}

func TestEngine_SkipsCorruptSnapshot(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "broken"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "broken", "settings.gob"), []byte("garbage"), 0600))

	eng := engine.NewEngine(dataDir)
	assert.Empty(t, eng.ListCollections())
}

func TestEngine_ImplementsCollectionManager(t *testing.T) {
	var _ services.CollectionManager = engine.NewEngine("")
}
