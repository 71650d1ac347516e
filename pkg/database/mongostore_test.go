package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type nestedDoc struct {
	Guilds map[string]map[string]int `json:"guilds"`
	Chance float64                   `json:"chance"`
	Names  []string                  `json:"names"`
	Last   *int64                    `json:"last"`
}

func TestBSONConversionKeepsJSONShape(t *testing.T) {
	last := int64(1700000000)
	in := nestedDoc{
		Guilds: map[string]map[string]int{"111": {"222": 50}},
		Chance: 0.35,
		Names:  []string{"a", "b"},
		Last:   &last,
	}

	doc, err := toBSON(in)
	require.NoError(t, err)

	raw, err := bson.Marshal(bson.M{"data": doc})
	require.NoError(t, err)

	var stored storedDocument
	require.NoError(t, bson.Unmarshal(raw, &stored))

	var out nestedDoc
	require.NoError(t, fromBSON(stored.Data, &out))
	assert.Equal(t, in, out)
}

func TestMongoStoreOfflineQueue(t *testing.T) {
	db := NewDatabase()
	store := NewMongoStore(db, "test")

	var out nestedDoc
	_, err := store.Load(context.Background(), "levels", &out)
	assert.ErrorIs(t, err, ErrOffline)

	in := nestedDoc{Guilds: map[string]map[string]int{"1": {"2": 1}}, Names: []string{}}
	require.NoError(t, store.Save(context.Background(), "levels", &in))
	assert.Equal(t, 1, db.QueueLength())

	// a newer snapshot replaces the queued one
	in.Guilds["1"]["2"] = 3
	require.NoError(t, store.Save(context.Background(), "levels", &in))
	require.NoError(t, store.Save(context.Background(), "economy", &nestedDoc{Names: []string{}}))
	assert.Equal(t, 2, db.QueueLength())

	found, err := store.Load(context.Background(), "levels", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, out.Guilds["1"]["2"])
}

func TestRequeueKeepsNewerWrites(t *testing.T) {
	db := NewDatabase()
	db.Enqueue(QueuedWrite{Collection: "documents", ID: "a", Set: bson.M{"v": 1}})
	db.Enqueue(QueuedWrite{Collection: "documents", ID: "b", Set: bson.M{"v": 1}})

	writes := db.drain()
	require.Len(t, writes, 2)
	assert.Equal(t, "a", writes[0].ID)
	assert.Equal(t, 0, db.QueueLength())

	db.Enqueue(QueuedWrite{Collection: "documents", ID: "a", Set: bson.M{"v": 2}})
	db.requeue(writes)

	assert.Equal(t, 2, db.QueueLength())
	w, ok := db.Pending("documents", "a")
	require.True(t, ok)
	assert.Equal(t, 2, w.Set["v"])
}
