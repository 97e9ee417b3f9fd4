package storage

import (
	"fmt"
	"log/slog"

	"recipes-tsae/pkg/tsae"
)

// scaleThreshold: при каком количестве ключей на шард начинаем увеличивать
const scaleThreshold = 100_000

func NewEngine(initialShards int) *Engine {
	if initialShards <= 0 {
		initialShards = 64
	}
	// маска в shardFor требует степень двойки
	n := 1
	for n < initialShards {
		n <<= 1
	}
	e := &Engine{threshold: scaleThreshold}
	e.table.Store(newShardTable(n))
	return e
}

func newShardTable(n int) *shardTable {
	t := &shardTable{shards: make([]*Shard, n)}
	for i := range t.shards {
		t.shards[i] = &Shard{data: make(map[string]*RecipeEntry, 16)}
	}
	return t
}

func (e *Engine) Get(title string) (*RecipeEntry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	shard := e.shardFor(title)
	shard.mu.RLock()
	entry, ok := shard.data[title]
	shard.mu.RUnlock()
	if !ok {
		return nil, false
	}
	cp := *entry
	return &cp, true
}

// Put stores recipe under its title, replacing any previous entry.
func (e *Engine) Put(recipe tsae.Recipe, updated tsae.Timestamp) {
	e.mu.RLock()
	shard := e.shardFor(recipe.Title)
	shard.mu.Lock()
	if _, ok := shard.data[recipe.Title]; !ok {
		e.countKeys.Add(1)
	}
	shard.data[recipe.Title] = &RecipeEntry{
		Recipe:      recipe,
		LastUpdated: updated,
	}
	shard.mu.Unlock()
	e.mu.RUnlock()

	e.maybeScale()
}

// Delete removes title and reports whether it was present.
func (e *Engine) Delete(title string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	shard := e.shardFor(title)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, ok := shard.data[title]; !ok {
		return false
	}
	delete(shard.data, title)
	e.countKeys.Add(-1)
	return true
}

func (e *Engine) Len() int {
	return int(e.countKeys.Load())
}

// Titles returns every stored title in sorted order.
func (e *Engine) Titles() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var titles []string
	for _, shard := range e.table.Load().shards {
		shard.mu.RLock()
		titles = append(titles, sortedKeys(shard.data)...)
		shard.mu.RUnlock()
	}
	return sortStrings(titles)
}

// Recipes returns a copy of every stored recipe ordered by title.
func (e *Engine) Recipes() []tsae.Recipe {
	titles := e.Titles()
	out := make([]tsae.Recipe, 0, len(titles))
	for _, title := range titles {
		if entry, ok := e.Get(title); ok {
			out = append(out, entry.Recipe)
		}
	}
	return out
}

// shardFor must be called with e.mu held.
func (e *Engine) shardFor(key string) *Shard {
	shards := e.table.Load().shards
	idx := hashKey(key) & uint32(len(shards)-1)
	return shards[idx]
}

func (e *Engine) maybeScale() {
	total := e.countKeys.Load()
	nShards := int64(len(e.table.Load().shards))

	if total/nShards > e.threshold {
		e.growShards()
	}
}

func (e *Engine) growShards() {
	e.mu.Lock()
	defer e.mu.Unlock()

	old := e.table.Load()
	current := len(old.shards)
	if total := e.countKeys.Load(); total/int64(current) <= e.threshold {
		return // кто-то уже увеличил
	}

	newCount := current * 2
	grown := newShardTable(newCount)

	// перемещаем записи в новые шарды (ребаланс по хэшу)
	for _, shard := range old.shards {
		for k, v := range shard.data {
			idx := hashKey(k) & uint32(newCount-1)
			grown.shards[idx].data[k] = v
		}
	}

	e.table.Store(grown)
	slog.Info(fmt.Sprintf("[store] scaled to %d shards", newCount))
}
