package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCollectorRecordsTimings(t *testing.T) {
	c := NewCollector()

	c.RecordRequest(OpRead, 10*time.Millisecond, false)
	c.RecordRequest(OpRead, 30*time.Millisecond, false)
	c.RecordRequest(OpRead, 20*time.Millisecond, true)

	snap := c.Snapshot()
	s, ok := snap.Ops[OpRead]
	if !ok {
		t.Fatal("expected read stats")
	}
	if s.Count != 3 {
		t.Errorf("count = %d, want 3", s.Count)
	}
	if s.Failures != 1 {
		t.Errorf("failures = %d, want 1", s.Failures)
	}
	if s.MinTimeMs != 10 || s.MaxTimeMs != 30 {
		t.Errorf("min/max = %d/%d, want 10/30", s.MinTimeMs, s.MaxTimeMs)
	}
	if s.AvgTimeMs != 20 {
		t.Errorf("avg = %v, want 20", s.AvgTimeMs)
	}
}

func TestCollectorEmptySnapshot(t *testing.T) {
	c := NewCollector()

	snap := c.Snapshot()
	if len(snap.Ops) != 0 {
		t.Errorf("expected no ops, got %v", snap.Ops)
	}
	if snap.UptimeSeconds < 0 {
		t.Errorf("uptime must not be negative, got %v", snap.UptimeSeconds)
	}
}

func TestCollectorConcurrentRecording(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordRequest(OpMessage, time.Millisecond, false)
			}
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Ops[OpMessage].Count; got != 1000 {
		t.Errorf("count = %d, want 1000", got)
	}
}
