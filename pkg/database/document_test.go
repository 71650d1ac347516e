package database

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterDoc struct {
	Counts map[string]int `json:"counts"`
	Label  string         `json:"label"`
}

func (c *counterDoc) Normalize() {
	if c.Counts == nil {
		c.Counts = make(map[string]int)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	var missing counterDoc
	found, err := store.Load(context.Background(), "missing", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	in := counterDoc{Counts: map[string]int{"123": 4}, Label: "hola"}
	require.NoError(t, store.Save(context.Background(), "counter", &in))

	_, err = os.Stat(filepath.Join(dir, "counter.json"))
	require.NoError(t, err)

	var out counterDoc
	found, err = store.Load(context.Background(), "counter", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	assert.Empty(t, leftovers)
}

func TestFileStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))

	var out counterDoc
	_, err = store.Load(context.Background(), "broken", &out)
	assert.Error(t, err)
}

func TestDocumentDefaultsAndPersist(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	doc := NewDocument(store, "counter", func() *counterDoc {
		return &counterDoc{Label: "default"}
	})

	err = doc.View(context.Background(), func(c *counterDoc) error {
		assert.Equal(t, "default", c.Label)
		assert.NotNil(t, c.Counts, "Normalize should initialise maps")
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, doc.Update(context.Background(), func(c *counterDoc) error {
		c.Counts["a"] = 7
		return nil
	}))

	reopened := NewDocument[counterDoc](store, "counter", nil)
	require.NoError(t, reopened.View(context.Background(), func(c *counterDoc) error {
		assert.Equal(t, 7, c.Counts["a"])
		assert.Equal(t, "default", c.Label)
		return nil
	}))
}

func TestDocumentUpdateErrorSkipsPersist(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	doc := NewDocument[counterDoc](store, "counter", nil)
	boom := errors.New("boom")

	err = doc.Update(context.Background(), func(c *counterDoc) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var out counterDoc
	found, err := store.Load(context.Background(), "counter", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDocumentConcurrentUpdates(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	doc := NewDocument[counterDoc](store, "counter", nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = doc.Update(context.Background(), func(c *counterDoc) error {
				c.Counts["n"]++
				return nil
			})
		}()
	}
	wg.Wait()

	doc.Reload()
	require.NoError(t, doc.View(context.Background(), func(c *counterDoc) error {
		assert.Equal(t, 50, c.Counts["n"])
		return nil
	}))
}

type offlineStore struct{}

func (offlineStore) Load(context.Context, string, interface{}) (bool, error) {
	return false, ErrOffline
}
func (offlineStore) Save(context.Context, string, interface{}) error { return ErrOffline }
func (offlineStore) Backend() string                                 { return "offline" }

func TestDocumentOfflineStartsWithDefaults(t *testing.T) {
	doc := NewDocument(offlineStore{}, "counter", func() *counterDoc {
		return &counterDoc{Label: "fallback"}
	})

	require.NoError(t, doc.Update(context.Background(), func(c *counterDoc) error {
		c.Counts["x"] = 1
		return nil
	}))
	require.NoError(t, doc.View(context.Background(), func(c *counterDoc) error {
		assert.Equal(t, "fallback", c.Label)
		assert.Equal(t, 1, c.Counts["x"])
		return nil
	}))
}
