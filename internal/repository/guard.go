package repository

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/logger"
	"go.uber.org/zap"
)

// guardedMap is a map behind a single mutex. A panic while the lock is held
// poisons it: the panic is returned as an UnknownError and every later call
// fails the same way, since the map may have been left half-written.
type guardedMap[V any] struct {
	name     string
	mu       sync.Mutex
	poisoned bool
	items    map[uuid.UUID]V
}

func newGuardedMap[V any](name string, items map[uuid.UUID]V) *guardedMap[V] {
	if items == nil {
		items = make(map[uuid.UUID]V)
	}
	return &guardedMap[V]{name: name, items: items}
}

// with runs fn while holding the lock.
func (g *guardedMap[V]) with(fn func(items map[uuid.UUID]V) error) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.poisoned {
		return UnknownError{Err: fmt.Errorf("%s repository lock was poisoned during a previous access and can no longer be locked", g.name)}
	}

	defer func() {
		if r := recover(); r != nil {
			g.poisoned = true
			logger.Get().Error("repository lock poisoned", zap.String("repository", g.name), zap.Any("panic", r))
			err = UnknownError{Err: fmt.Errorf("%s repository panicked while locked: %v", g.name, r)}
		}
	}()

	return fn(g.items)
}
