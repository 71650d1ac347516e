// Package database persists feature documents. Documents live either in JSON
// files or in MongoDB; the MongoDB connection keeps an offline write queue that
// is replayed once the server is reachable again.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	opTimeout         = 5 * time.Second
	reconnectInterval = 15 * time.Second
)

// QueuedWrite is an upsert waiting for the server. Whole documents are
// written, so only the latest write of each document is kept.
type QueuedWrite struct {
	Collection string
	ID         string
	Set        bson.M
}

func (w QueuedWrite) key() string {
	return w.Collection + "/" + w.ID
}

// Database manages the MongoDB connection and its offline write queue
type Database struct {
	client      *mongo.Client
	db          *mongo.Database
	connected   bool
	mongoURL    string
	dbName      string
	reconnectCh chan struct{}
	reconnectOn bool
	stopOnce    sync.Once
	mu          sync.RWMutex
	collections map[string]*mongo.Collection

	queueMu sync.Mutex
	order   []string
	pending map[string]QueuedWrite
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init initializes the global database instance. The returned Database is
// usable even when the first connection fails; it keeps retrying.
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// Get returns the global database instance
func Get() *Database {
	return database
}

// NewDatabase creates a disconnected Database
func NewDatabase() *Database {
	return &Database{
		reconnectCh: make(chan struct{}),
		collections: make(map[string]*mongo.Collection),
		pending:     make(map[string]QueuedWrite),
	}
}

// Connect establishes a connection to MongoDB
func (d *Database) Connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.mongoURL, d.dbName = mongoURL, dbName
	if d.connected {
		return nil
	}

	logger.System("Intentando conectar a la base de datos...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(opTimeout))
	if err != nil {
		logger.Critical("Fallo al conectar con la base de datos.", "DB")
		d.goOffline()
		return errors.WrapIf(err, "conectando a MongoDB")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("Fallo al verificar conexión con la base de datos.", "DB")
		_ = client.Disconnect(context.Background())
		d.goOffline()
		return errors.WrapIf(err, "ping a MongoDB")
	}

	d.client = client
	d.db = client.Database(dbName)
	d.collections = make(map[string]*mongo.Collection)
	d.connected = true

	logger.Success("Conectado exitosamente a la base de datos.", "DB")

	go d.flush()
	return nil
}

// goOffline switches to offline mode and starts the reconnect loop once.
// The caller must hold d.mu.
func (d *Database) goOffline() {
	if d.connected {
		logger.Warn("Se perdió la conexión con la base de datos. Activando modo offline.", "DB")
	}
	d.connected = false
	if d.reconnectOn {
		return
	}
	d.reconnectOn = true

	go func() {
		ticker := time.NewTicker(reconnectInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logger.Info("Intentando reconectar a la base de datos...", "DB")
				d.mu.RLock()
				url, name := d.mongoURL, d.dbName
				d.mu.RUnlock()
				if err := d.Connect(url, name); err == nil {
					d.mu.Lock()
					d.reconnectOn = false
					d.mu.Unlock()
					return
				}
			case <-d.reconnectCh:
				return
			}
		}
	}()
}

// Disconnect stops reconnecting and closes the connection
func (d *Database) Disconnect() error {
	d.stopOnce.Do(func() { close(d.reconnectCh) })

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}
	d.connected = false
	if n := d.QueueLength(); n > 0 {
		logger.Warn(fmt.Sprintf("La base de datos se desconectó con %d escrituras pendientes", n), "DB")
	} else {
		logger.Warn("La base de datos ha sido desconectada", "DB")
	}
	return nil
}

// GetStatus returns the database connection status
func (d *Database) GetStatus() (string, bool) {
	d.mu.RLock()
	client := d.client
	d.mu.RUnlock()

	if client == nil {
		return "🔴 | Desconectado", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}

// Connected reports whether the last connection attempt succeeded.
func (d *Database) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// MarkDisconnected flags the connection as lost after a failed operation.
func (d *Database) MarkDisconnected() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.goOffline()
}

// GetCollection returns a MongoDB collection, nil while never connected
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	col, ok := d.collections[name]
	db := d.db
	d.mu.RUnlock()
	if ok || db == nil {
		return col
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	col = db.Collection(name)
	d.collections[name] = col
	return col
}

// Enqueue stores a write for later, replacing an older one of the same document.
func (d *Database) Enqueue(w QueuedWrite) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()

	k := w.key()
	if _, ok := d.pending[k]; !ok {
		d.order = append(d.order, k)
	}
	d.pending[k] = w
}

// Pending returns the queued write of a document, so reads made while
// offline still see it.
func (d *Database) Pending(collection, id string) (QueuedWrite, bool) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	w, ok := d.pending[QueuedWrite{Collection: collection, ID: id}.key()]
	return w, ok
}

// QueueLength returns the number of documents waiting for the server.
func (d *Database) QueueLength() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.order)
}

// drain takes every queued write in arrival order.
func (d *Database) drain() []QueuedWrite {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()

	out := make([]QueuedWrite, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.pending[k])
	}
	d.order = nil
	d.pending = make(map[string]QueuedWrite)
	return out
}

// requeue puts back writes that failed, unless a newer write arrived meanwhile.
func (d *Database) requeue(writes []QueuedWrite) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	for _, w := range writes {
		k := w.key()
		if _, newer := d.pending[k]; newer {
			continue
		}
		d.order = append(d.order, k)
		d.pending[k] = w
	}
}

// flush replays the offline queue
func (d *Database) flush() {
	writes := d.drain()
	if len(writes) == 0 {
		return
	}

	logger.System(fmt.Sprintf("Sincronizando %d documentos pendientes con la DB...", len(writes)), "DB-Sync")

	var failed []QueuedWrite
	for _, w := range writes {
		col := d.GetCollection(w.Collection)
		if col == nil {
			failed = append(failed, w)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		_, err := col.UpdateOne(ctx, bson.M{"_id": w.ID}, bson.M{"$set": w.Set}, options.Update().SetUpsert(true))
		cancel()

		if err != nil {
			logger.Error(fmt.Sprintf("Error al sincronizar '%s'. Se volverá a encolar.", w.ID), "DB-Sync")
			failed = append(failed, w)
			continue
		}
		metrics.StoreWritesTotal.WithLabelValues(w.ID, "replayed").Inc()
	}

	if len(failed) > 0 {
		d.requeue(failed)
		logger.Warn(fmt.Sprintf("%d documentos no pudieron sincronizarse y se reintentarán.", len(failed)), "DB-Sync")
		return
	}
	logger.Success("Sincronización completada exitosamente.", "DB-Sync")
}
