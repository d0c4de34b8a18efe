package pipeline

import "testing"

func TestForegroundDefaultsToNone(t *testing.T) {
	f := NewForeground()
	if f.Get() != -1 {
		t.Fatalf("want -1, got %d", f.Get())
	}
}

func TestForegroundSetAndGet(t *testing.T) {
	f := NewForeground()
	f.Set(1234)
	if f.Get() != 1234 {
		t.Fatalf("got %d", f.Get())
	}
}

func TestForegroundReleaseClearsPgid(t *testing.T) {
	f := NewForeground()
	f.Set(1234)
	f.Release()
	if f.Get() != -1 {
		t.Fatalf("want -1 after Release, got %d", f.Get())
	}
}
