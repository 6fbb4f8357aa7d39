package matchlock

import (
	"sync"
	"testing"
)

func TestKeyed_SerializesSameKey(t *testing.T) {
	k := New()

	const workers = 16
	const iterations = 100

	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				release := k.Lock("match-1")
				counter++
				release()
			}
		}()
	}
	wg.Wait()

	if counter != workers*iterations {
		t.Fatalf("expected %d increments, got %d", workers*iterations, counter)
	}
}

func TestKeyed_ReleasesUnusedEntries(t *testing.T) {
	k := New()

	release := k.Lock("match-1")
	release()

	k.mu.Lock()
	remaining := len(k.locks)
	k.mu.Unlock()

	if remaining != 0 {
		t.Fatalf("expected lock table to be empty, got %d entries", remaining)
	}
}

func TestKeyed_DistinctKeysDoNotBlock(t *testing.T) {
	k := New()

	releaseA := k.Lock("match-a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB := k.Lock("match-b")
		releaseB()
		close(done)
	}()

	<-done
}
