package ratelimit

import (
	"testing"
	"time"
)

func TestAllowConsumesCapacity(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New()
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("call %d denied within capacity", i)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Errorf("call beyond capacity allowed")
	}
}

func TestAllowRefills(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New()
	l.now = func() time.Time { return now }

	if !l.Allow("k", 1, 1) {
		t.Fatalf("first call denied")
	}
	if l.Allow("k", 1, 1) {
		t.Fatalf("bucket not empty after capacity spent")
	}

	now = now.Add(time.Second)
	if !l.Allow("k", 1, 1) {
		t.Errorf("token not refilled after one second")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first key denied")
	}
	if !l.Allow("b", 1, 0) {
		t.Errorf("second key shares first key's bucket")
	}
}

func TestReset(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New()
	l.now = func() time.Time { return now }

	l.Allow("k", 1, 0)
	if l.Allow("k", 1, 0) {
		t.Fatalf("bucket not empty")
	}
	l.Reset("k")
	if !l.Allow("k", 1, 0) {
		t.Errorf("bucket not full after reset")
	}
}
