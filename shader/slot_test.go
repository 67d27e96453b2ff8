package shader

import (
	"sync"
	"testing"
)

func TestSlotZeroValue(t *testing.T) {
	var s Slot
	snap := s.Load()
	if snap == nil || snap.Version != 0 || snap.Artifact != nil {
		t.Errorf("zero Slot snapshot = %+v", snap)
	}
}

func TestSlotPublishIncrements(t *testing.T) {
	var s Slot
	a1, a2 := &Artifact{Source: "1"}, &Artifact{Source: "2"}
	if v := s.Publish(a1); v != 1 {
		t.Fatalf("first Publish = %d, want 1", v)
	}
	if v := s.Publish(a2); v != 2 {
		t.Fatalf("second Publish = %d, want 2", v)
	}
	snap := s.Load()
	if snap.Version != 2 || snap.Artifact != a2 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestSlotConcurrentPublish(t *testing.T) {
	var s Slot
	const n = 64
	seen := make([]uint64, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen[i] = s.Publish(&Artifact{})
		}()
	}
	wg.Wait()

	if s.Version() != n {
		t.Fatalf("Version = %d, want %d", s.Version(), n)
	}
	used := make(map[uint64]bool, n)
	for _, v := range seen {
		if v == 0 || v > n || used[v] {
			t.Fatalf("version %d duplicated or out of range", v)
		}
		used[v] = true
	}
}

func TestSlotReadersSeeMonotonicVersions(t *testing.T) {
	var s Slot
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			s.Publish(&Artifact{})
		}
	}()
	var last uint64
	for {
		select {
		case <-done:
			if s.Version() < last {
				t.Fatal("version went backwards")
			}
			return
		default:
		}
		snap := s.Load()
		if snap.Version < last {
			t.Fatalf("version went backwards: %d after %d", snap.Version, last)
		}
		if snap.Version > 0 && snap.Artifact == nil {
			t.Fatal("published version without artifact")
		}
		last = snap.Version
	}
}
