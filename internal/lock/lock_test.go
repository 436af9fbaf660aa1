package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	registry := NewRegistry()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := registry.Lock("acct-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLockOverlappingKeySetsDoNotDeadlock(t *testing.T) {
	registry := NewRegistry()
	done := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := registry.Lock("a", "b")
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := registry.Lock("b", "a")
			unlock()
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	<-done
}

func TestLockDuplicateKeys(t *testing.T) {
	registry := NewRegistry()
	unlock := registry.Lock("a", "a", "a")
	unlock()

	// Re-acquire to prove the duplicate keys were collapsed and released.
	unlock = registry.Lock("a")
	unlock()
}
