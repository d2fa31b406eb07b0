package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := Key("search", "some query")
	if err := c.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	val, found := c.Get(key)
	if !found {
		t.Fatal("Expected cache hit")
	}
	if string(val) != "payload" {
		t.Errorf("Expected 'payload', got %q", val)
	}
}

func TestMemoryCache_MissAndDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get(Key("absent")); found {
		t.Error("Expected cache miss for absent key")
	}

	key := Key("present")
	_ = c.Set(key, []byte("x"), time.Minute)
	_ = c.Delete(key)

	if _, found := c.Get(key); found {
		t.Error("Expected cache miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(10*time.Millisecond, time.Minute)

	key := Key("short-lived")
	_ = c.Set(key, []byte("x"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get(key); found {
		t.Error("Expected entry to expire")
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := Key("account", "text body")
	b := Key("account", "text body")
	if a != b {
		t.Errorf("Expected identical keys, got %q and %q", a, b)
	}

	// Part boundaries matter
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("Expected distinct keys for distinct part splits")
	}
}
