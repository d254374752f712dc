// Package index holds the in-memory entity set the search runs over.
// Readers take a snapshot pointer and work lock-free; refreshes build a
// complete replacement off to the side and publish it atomically, so a
// reader observes either the old list or the new one, never a mix.
package index

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/watchlist-screener/app/models"
)

// ErrEmptyIndex is returned when a search runs before any list loaded.
var ErrEmptyIndex = errors.New("entity index is empty")

type snapshot struct {
	all      []*models.Entity
	bySource map[models.SourceList][]*models.Entity
	byType   map[models.EntityType][]*models.Entity
	byID     map[string]*models.Entity
	version  uint64
}

// Index is safe for concurrent use: any number of readers against one
// writer. Entities handed to the index are treated as immutable.
type Index struct {
	mu      sync.Mutex
	current atomic.Pointer[snapshot]
}

// New returns an empty index.
func New() *Index {
	idx := &Index{}
	idx.current.Store(emptySnapshot(0))
	return idx
}

func emptySnapshot(version uint64) *snapshot {
	return &snapshot{
		bySource: make(map[models.SourceList][]*models.Entity),
		byType:   make(map[models.EntityType][]*models.Entity),
		byID:     make(map[string]*models.Entity),
		version:  version,
	}
}

func buildSnapshot(base *snapshot, entities []*models.Entity, version uint64) *snapshot {
	next := &snapshot{
		all:      make([]*models.Entity, 0, len(base.all)+len(entities)),
		bySource: make(map[models.SourceList][]*models.Entity, len(base.bySource)+4),
		byType:   make(map[models.EntityType][]*models.Entity, len(base.byType)+4),
		byID:     make(map[string]*models.Entity, len(base.byID)+len(entities)),
		version:  version,
	}

	install := func(e *models.Entity) {
		if e == nil || e.ID == "" {
			return
		}
		// First write wins on a duplicate id.
		if _, ok := next.byID[e.ID]; ok {
			return
		}
		next.byID[e.ID] = e
		next.all = append(next.all, e)
		next.bySource[e.Source] = append(next.bySource[e.Source], e)
		next.byType[e.Type] = append(next.byType[e.Type], e)
	}

	for _, e := range base.all {
		install(e)
	}
	for _, e := range entities {
		install(e)
	}
	return next
}

// AddAll appends entities to the index. The additions become visible
// all at once when the call returns.
func (idx *Index) AddAll(entities []*models.Entity) {
	if len(entities) == 0 {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	cur := idx.current.Load()
	idx.current.Store(buildSnapshot(cur, entities, cur.version+1))
}

// ReplaceAll swaps the entire index contents in one atomic publication.
func (idx *Index) ReplaceAll(entities []*models.Entity) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	cur := idx.current.Load()
	idx.current.Store(buildSnapshot(emptySnapshot(cur.version+1), entities, cur.version+1))
}

// Clear drops every entity.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	cur := idx.current.Load()
	idx.current.Store(emptySnapshot(cur.version + 1))
}

// GetAll returns the current entity list. The returned slice belongs to
// a published snapshot and must not be modified.
func (idx *Index) GetAll() []*models.Entity {
	return idx.current.Load().all
}

// GetBySource returns entities from one sanctions list.
func (idx *Index) GetBySource(src models.SourceList) []*models.Entity {
	return idx.current.Load().bySource[src]
}

// GetByType returns entities of one entity type.
func (idx *Index) GetByType(t models.EntityType) []*models.Entity {
	return idx.current.Load().byType[t]
}

// GetByID looks up a single entity.
func (idx *Index) GetByID(id string) (*models.Entity, bool) {
	e, ok := idx.current.Load().byID[id]
	return e, ok
}

// Size reports how many entities are installed.
func (idx *Index) Size() int {
	return len(idx.current.Load().all)
}

// Version increments on every mutation; the search cache keys on it so
// a refresh invalidates cached results without flushing anything.
func (idx *Index) Version() uint64 {
	return idx.current.Load().version
}
