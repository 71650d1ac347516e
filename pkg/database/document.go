package database

import (
	"context"
	"fmt"
	"sync"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/metrics"
)

// Normalizer is implemented by documents that need nil maps initialised after decoding.
type Normalizer interface {
	Normalize()
}

// Document is one feature document held in memory and persisted through a Store.
// Every mutation goes through Update, which serialises read-modify-write cycles
// so concurrent handlers never lose each other's changes.
type Document[T any] struct {
	name     string
	store    Store
	defaults func() *T

	mu     sync.Mutex
	value  *T
	loaded bool
}

// NewDocument creates a lazily loaded document. defaults builds the value used
// when the store has nothing for this name yet.
func NewDocument[T any](store Store, name string, defaults func() *T) *Document[T] {
	if defaults == nil {
		defaults = func() *T { return new(T) }
	}
	return &Document[T]{
		name:     name,
		store:    store,
		defaults: defaults,
	}
}

// Name returns the document name.
func (d *Document[T]) Name() string {
	return d.name
}

// load must be called with d.mu held.
func (d *Document[T]) load(ctx context.Context) error {
	if d.loaded {
		return nil
	}

	value := d.defaults()
	found, err := d.store.Load(ctx, d.name, value)
	if err != nil {
		if !errors.Is(err, ErrOffline) {
			return err
		}
		logger.Warn(fmt.Sprintf("Almacenamiento offline, '%s' arranca con valores por defecto", d.name), "Document")
		value = d.defaults()
	} else if !found {
		logger.Info(fmt.Sprintf("Nuevo documento '%s' creado", d.name), "Document")
	}

	if n, ok := any(value).(Normalizer); ok {
		n.Normalize()
	}

	d.value = value
	d.loaded = true
	return nil
}

// View runs fn with the current value. fn must not keep references past its return.
func (d *Document[T]) View(ctx context.Context, fn func(*T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.load(ctx); err != nil {
		return err
	}
	return fn(d.value)
}

// Update runs fn and persists the document when fn succeeds. A failed persist
// is logged and counted; the in-memory value stays authoritative and the next
// successful write carries the change.
func (d *Document[T]) Update(ctx context.Context, fn func(*T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.load(ctx); err != nil {
		return err
	}
	if err := fn(d.value); err != nil {
		return err
	}

	if err := d.store.Save(ctx, d.name, d.value); err != nil {
		metrics.StoreWritesTotal.WithLabelValues(d.name, "error").Inc()
		logger.Error(fmt.Sprintf("No se pudo guardar '%s': %v", d.name, err), "Document")
		return nil
	}
	metrics.StoreWritesTotal.WithLabelValues(d.name, "ok").Inc()
	return nil
}

// Reload drops the in-memory value so the next access reads the store again.
func (d *Document[T]) Reload() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = false
	d.value = nil
}
