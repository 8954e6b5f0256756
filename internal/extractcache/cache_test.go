package extractcache

import (
	"fmt"
	"testing"
	"time"

	"scribe/internal/extraction"
)

func resultWithText(text string) *extraction.Result {
	return &extraction.Result{EnrichedText: text, Fields: map[string]extraction.FieldScore{}}
}

func TestLookupMissAndHit(t *testing.T) {
	cache := New(time.Minute, 8, nil)

	if _, ok := cache.Lookup("call sarah"); ok {
		t.Fatal("empty cache reported a hit")
	}

	cache.Store("call sarah", resultWithText("Call Sarah."))
	got, ok := cache.Lookup("call sarah")
	if !ok || got.EnrichedText != "Call Sarah." {
		t.Fatalf("lookup = %+v, %v", got, ok)
	}
}

func TestKeyNormalizesCaseAndWhitespace(t *testing.T) {
	cache := New(time.Minute, 8, nil)
	cache.Store("Call   Sarah", resultWithText("Call Sarah."))

	if _, ok := cache.Lookup("call sarah"); !ok {
		t.Error("case-differing input missed")
	}
	if _, ok := cache.Lookup("  call\tsarah  "); !ok {
		t.Error("whitespace-differing input missed")
	}
	if _, ok := cache.Lookup("call sara"); ok {
		t.Error("different input hit")
	}
}

func TestExpiryLooksLikeMiss(t *testing.T) {
	current := time.Unix(1000, 0)
	cache := New(time.Minute, 8, nil, WithClock(func() time.Time { return current }))

	cache.Store("call sarah", resultWithText("Call Sarah."))

	current = current.Add(59 * time.Second)
	if _, ok := cache.Lookup("call sarah"); !ok {
		t.Fatal("entry expired early")
	}

	current = current.Add(2 * time.Second)
	if _, ok := cache.Lookup("call sarah"); ok {
		t.Fatal("expired entry still served")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry not dropped, len = %d", cache.Len())
	}
}

func TestCapacityEvictsOldestFirst(t *testing.T) {
	cache := New(time.Minute, 3, nil)

	for i := 0; i < 4; i++ {
		input := fmt.Sprintf("task number %d", i)
		cache.Store(input, resultWithText(input))
	}

	if cache.Len() != 3 {
		t.Fatalf("len = %d, want 3", cache.Len())
	}
	if _, ok := cache.Lookup("task number 0"); ok {
		t.Error("oldest entry survived eviction")
	}
	for i := 1; i < 4; i++ {
		if _, ok := cache.Lookup(fmt.Sprintf("task number %d", i)); !ok {
			t.Errorf("entry %d evicted out of order", i)
		}
	}
}

func TestStoreReplacesExisting(t *testing.T) {
	cache := New(time.Minute, 8, nil)
	cache.Store("call sarah", resultWithText("old"))
	cache.Store("call sarah", resultWithText("new"))

	got, ok := cache.Lookup("call sarah")
	if !ok || got.EnrichedText != "new" {
		t.Fatalf("lookup after replace = %+v, %v", got, ok)
	}
	if cache.Len() != 1 {
		t.Errorf("len = %d, want 1", cache.Len())
	}
}

func TestStoreNilIgnored(t *testing.T) {
	cache := New(time.Minute, 8, nil)
	cache.Store("call sarah", nil)
	if cache.Len() != 0 {
		t.Errorf("nil result stored")
	}
}
