package structs

import (
	"sort"

	"golang.org/x/exp/constraints"
)

type empty = struct{}

// Set это простое множество для значений типа T
type Set[T comparable] map[T]empty

// NewSet создаёт пустое множество
func NewSet[T comparable](values ...T) Set[T] {
	res := make(Set[T])
	for _, v := range values {
		res[v] = empty{}
	}
	return res
}

// Add добавляет элемент в множество
func (s Set[T]) Add(value T) {
	s[value] = empty{}
}

// Remove удаляет элемент из множества
func (s Set[T]) Remove(value T) {
	delete(s, value)
}

// Has проверяет наличие элемента
func (s Set[T]) Contains(value T) bool {
	_, exists := s[value]
	return exists
}

// Size возвращает количество элементов
func (s Set[T]) Size() int {
	return len(s)
}

// Values возвращает все элементы множества
func (s Set[T]) Slice() []T {
	values := make([]T, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	return values
}

// Clone создаёт копию множества
func (s Set[T]) Clone() Set[T] {
	clone := NewSet[T]()
	for v := range s {
		clone[v] = struct{}{}
	}
	return clone
}

// Sorted возвращает элементы множества по возрастанию
func Sorted[T constraints.Ordered](s Set[T]) []T {
	values := s.Slice()
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}
