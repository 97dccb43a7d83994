// Package pathintern deduplicates filesystem path strings behind
// small integer handles, so the rest of the kernel can pass handles
// between components instead of repeatedly allocating and comparing
// long path strings.
package pathintern

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Handle is an opaque reference to an interned path string.
type Handle uint32

const shardCount = 16

type shard struct {
	mu      sync.RWMutex
	forward map[string]Handle
	reverse map[Handle]string
}

// Interner is safe for concurrent use. Path strings are sharded by
// content hash so that interning unrelated paths from different
// goroutines (the directory scanner's worker pool, the watcher's
// debounce loop, the search engine) doesn't serialize on one lock.
type Interner struct {
	shards [shardCount]*shard

	// globalMu sequences handle allocation across shards so that
	// Handle values stay globally unique without needing a shared
	// counter under contention on every Intern call.
	globalMu sync.Mutex
	next     Handle
}

// New returns an empty Interner.
func New() *Interner {
	it := &Interner{}
	for i := range it.shards {
		it.shards[i] = &shard{forward: make(map[string]Handle), reverse: make(map[Handle]string)}
	}
	return it
}

func (it *Interner) shardFor(path string) *shard {
	h := xxhash.Sum64String(path)
	return it.shards[h%uint64(shardCount)]
}

// Intern returns the handle for path, allocating a new one if this is
// the first time path has been seen.
func (it *Interner) Intern(path string) Handle {
	s := it.shardFor(path)

	s.mu.RLock()
	if h, ok := s.forward[path]; ok {
		s.mu.RUnlock()
		return h
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.forward[path]; ok {
		return h
	}

	it.globalMu.Lock()
	h := it.next
	it.next++
	it.globalMu.Unlock()

	s.forward[path] = h
	s.reverse[h] = path
	return h
}

// Resolve returns the path string for handle and whether it was found.
// A handle's owning shard is determined by its path's hash, not the
// handle value itself, so lookup checks each shard's reverse map; with
// shardCount fixed at 16 this stays effectively O(1).
func (it *Interner) Resolve(h Handle) (string, bool) {
	for _, s := range it.shards {
		s.mu.RLock()
		path, ok := s.reverse[h]
		s.mu.RUnlock()
		if ok {
			return path, true
		}
	}
	return "", false
}

// Stats reports diagnostic counters over the interner's contents.
type Stats struct {
	UniqueStrings  int
	ReverseEntries int
}

// Stats returns a snapshot of the interner's size.
func (it *Interner) Stats() Stats {
	var s Stats
	for _, sh := range it.shards {
		sh.mu.RLock()
		s.UniqueStrings += len(sh.forward)
		s.ReverseEntries += len(sh.reverse)
		sh.mu.RUnlock()
	}
	return s
}
