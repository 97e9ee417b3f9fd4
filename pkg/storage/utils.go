package storage

import (
	"hash/fnv"

	"recipes-tsae/pkg/structs"
)

func hashKey(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := structs.NewSet[string]()
	for k := range m {
		keys.Add(k)
	}
	return structs.Sorted(keys)
}

func sortStrings(values []string) []string {
	return structs.Sorted(structs.NewSet(values...))
}
