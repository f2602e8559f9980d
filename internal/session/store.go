package session

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one visitor's state. Callers hold Lock while reading or reducing
// Value so that actions from one visitor are applied one at a time.
type Entry[T any] struct {
	sync.Mutex
	Value T
}

type item[T any] struct {
	id        string
	entry     *Entry[T]
	expiresAt time.Time
}

// Store is a bounded, expiring, in-memory map of visitor id to state.
// Nothing is written to disk; a restart forgets every visitor.
type Store[T any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	newValue func() T
	now      func() time.Time

	items map[string]*list.Element
	lru   *list.List
}

func NewStore[T any](capacity int, ttl time.Duration, newValue func() T) *Store[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Store[T]{
		capacity: capacity,
		ttl:      ttl,
		newValue: newValue,
		now:      time.Now,
		items:    make(map[string]*list.Element, capacity),
		lru:      list.New(),
	}
}

// Get returns the live entry for id and refreshes its expiry.
func (s *Store[T]) Get(id string) (*Entry[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *Store[T]) getLocked(id string) (*Entry[T], bool) {
	elem, ok := s.items[id]
	if !ok {
		return nil, false
	}
	it := elem.Value.(*item[T])
	if s.now().After(it.expiresAt) {
		s.lru.Remove(elem)
		delete(s.items, id)
		return nil, false
	}
	it.expiresAt = s.now().Add(s.ttl)
	s.lru.MoveToFront(elem)
	return it.entry, true
}

// Acquire returns the entry for id, creating a fresh one under a new id when
// id is unknown or expired. The returned id is the one to hand back to the client.
func (s *Store[T]) Acquire(id string) (string, *Entry[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if entry, ok := s.getLocked(id); ok {
			return id, entry
		}
	}

	newID := uuid.New().String()
	entry := &Entry[T]{Value: s.newValue()}
	elem := s.lru.PushFront(&item[T]{id: newID, entry: entry, expiresAt: s.now().Add(s.ttl)})
	s.items[newID] = elem

	if s.lru.Len() > s.capacity {
		if oldest := s.lru.Back(); oldest != nil {
			s.lru.Remove(oldest)
			delete(s.items, oldest.Value.(*item[T]).id)
		}
	}
	return newID, entry
}

// Len returns the number of tracked visitors, expired ones included until touched.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}
