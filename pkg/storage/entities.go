package storage

import (
	"sync"
	"sync/atomic"

	"recipes-tsae/pkg/tsae"
)

// RecipeEntry хранит материализованный рецепт и метку операции, которая его записала
type RecipeEntry struct {
	Recipe tsae.Recipe
	// timestamp of the operation that last touched the entry
	LastUpdated tsae.Timestamp
}

type Shard struct {
	mu   sync.RWMutex
	data map[string]*RecipeEntry
}

type shardTable struct {
	shards []*Shard
}

// Engine is the recipe collection: title -> recipe, split into shards so
// readers do not contend with each other.
type Engine struct {
	mu        sync.RWMutex // guards table swaps while growing
	table     atomic.Pointer[shardTable]
	threshold int64

	// статистика
	countKeys atomic.Int64
}
