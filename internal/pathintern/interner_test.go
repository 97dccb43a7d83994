package pathintern

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternDedupes(t *testing.T) {
	it := New()
	h1 := it.Intern("/a/b/c")
	h2 := it.Intern("/a/b/c")
	assert.Equal(t, h1, h2)
}

func TestInternRoundTrip(t *testing.T) {
	it := New()
	h := it.Intern("/x/y")
	path, ok := it.Resolve(h)
	assert.True(t, ok)
	assert.Equal(t, "/x/y", path)
}

func TestResolveUnknownHandle(t *testing.T) {
	it := New()
	_, ok := it.Resolve(Handle(999999))
	assert.False(t, ok)
}

func TestInternConcurrentDistinctPaths(t *testing.T) {
	it := New()
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			it.Intern(string(rune('a' + i%26)))
		}()
	}
	wg.Wait()
	stats := it.Stats()
	assert.LessOrEqual(t, stats.UniqueStrings, 26)
	assert.Greater(t, stats.UniqueStrings, 0)
}
