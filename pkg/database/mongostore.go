package database

import (
	"context"
	"fmt"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentsCollection holds one record per feature document.
const DocumentsCollection = "documents"

// storedDocument is the MongoDB shape of a feature document.
type storedDocument struct {
	ID        string    `bson:"_id,omitempty"`
	Data      bson.Raw  `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore keeps documents in a single MongoDB collection. Documents are
// converted through relaxed extended JSON, so the stored shape matches the
// JSON file shape and models only need json tags.
type MongoStore struct {
	db         *Database
	dbName     string
	collection string
}

// NewMongoStore wraps a (possibly offline) Database connection.
func NewMongoStore(db *Database, dbName string) *MongoStore {
	return &MongoStore{
		db:         db,
		dbName:     dbName,
		collection: DocumentsCollection,
	}
}

func documentQuery(name string) bson.M {
	return bson.M{"_id": name}
}

// toBSON converts a JSON-tagged value into a BSON document.
func toBSON(v interface{}) (bson.M, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// fromBSON decodes a stored BSON document into a JSON-tagged value.
func fromBSON(raw bson.Raw, out interface{}) error {
	data, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Load reads a document. While offline, queued writes are served instead.
func (s *MongoStore) Load(ctx context.Context, name string, out interface{}) (bool, error) {
	if !s.db.Connected() {
		w, ok := s.db.Pending(s.collection, name)
		if !ok {
			return false, ErrOffline
		}
		data, ok := w.Set["data"].(bson.M)
		if !ok {
			return false, errors.Errorf("escritura pendiente de '%s' sin datos", name)
		}
		raw, err := bson.Marshal(data)
		if err != nil {
			return false, err
		}
		return true, fromBSON(bson.Raw(raw), out)
	}

	col := s.db.GetCollection(s.collection)
	if col == nil {
		return false, ErrOffline
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc storedDocument
	err := col.FindOne(ctx, documentQuery(name)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		logger.Warn(fmt.Sprintf("Fallo al leer '%s' de la DB", name), "MongoStore")
		return false, errors.WrapIfWithDetails(err, "loading document", "document", name)
	}

	if err := fromBSON(doc.Data, out); err != nil {
		return false, errors.WrapIfWithDetails(err, "decoding document", "document", name)
	}
	return true, nil
}

// Save upserts a document, queueing the write when the server is unreachable.
func (s *MongoStore) Save(ctx context.Context, name string, v interface{}) error {
	data, err := toBSON(v)
	if err != nil {
		return errors.WrapIfWithDetails(err, "encoding document", "document", name)
	}

	set := bson.M{"data": data, "updatedAt": time.Now().UTC()}
	queued := QueuedWrite{Collection: s.collection, ID: name, Set: set}

	col := s.db.GetCollection(s.collection)
	if !s.db.Connected() || col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Encolando escritura para '%s'", name), "MongoStore")
		s.db.Enqueue(queued)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, documentQuery(name), bson.M{"$set": set}, opts); err != nil {
		logger.Error(fmt.Sprintf("Error al guardar '%s' con DB conectada. Encolando por seguridad.", name), "MongoStore")
		s.db.Enqueue(queued)
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			s.db.MarkDisconnected()
		}
		return errors.WrapIfWithDetails(err, "saving document", "document", name)
	}
	return nil
}

// Backend implements Store
func (s *MongoStore) Backend() string {
	return "mongodb:" + s.dbName
}
