package swipe

import (
	"fmt"
	"sync"

	"github.com/oggyb/muzz-interest/internal/model"
)

// KeyedLocks hands out one mutex per key and forgets it once nobody holds
// or waits on it.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu  sync.Mutex
	ref int
}

func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is held and returns its unlock func.
func (k *KeyedLocks) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.ref++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.ref--
		if l.ref == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Len is the number of keys currently tracked.
func (k *KeyedLocks) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func actorKey(actorID uint64) string { return fmt.Sprintf("actor:%d", actorID) }

func pairKey(a, b uint64) string {
	p := model.CanonicalPair(a, b)
	return fmt.Sprintf("pair:%d:%d", p.Low, p.High)
}
