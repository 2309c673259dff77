package cache

import (
	"testing"
	"time"

	"github.com/192005chandrakant/credlens/internal/model"
)

func TestKey_Deterministic(t *testing.T) {
	a := Key("the earth is flat", model.ContentTypeText)
	b := Key("the earth is flat", model.ContentTypeText)
	if a != b {
		t.Errorf("Expected identical keys for identical input, got %q and %q", a, b)
	}
}

func TestKey_VariesByContent(t *testing.T) {
	a := Key("claim one", model.ContentTypeText)
	b := Key("claim two", model.ContentTypeText)
	if a == b {
		t.Error("Expected different keys for different content")
	}
}

func TestKey_VariesByContentType(t *testing.T) {
	a := Key("https://example.com", model.ContentTypeText)
	b := Key("https://example.com", model.ContentTypeURL)
	if a == b {
		t.Error("Expected different keys for same content with different types")
	}
}

func TestKey_Versioned(t *testing.T) {
	key := Key("anything", model.ContentTypeText)
	if key[:12] != "credlens:v1:" {
		t.Errorf("Expected versioned key prefix, got %q", key[:12])
	}
}

func TestCache_PutGet(t *testing.T) {
	c := New(time.Minute)
	key := Key("some claim", model.ContentTypeText)

	c.Put(key, model.AnalysisResult{ContentID: "id-1", Score: 72})

	got, found := c.Get(key)
	if !found {
		t.Fatal("Expected cache hit after Put")
	}
	if got.ContentID != "id-1" || got.Score != 72 {
		t.Errorf("Expected stored result back, got %+v", got)
	}
}

func TestCache_HitFlagSetOnCopyOnly(t *testing.T) {
	c := New(time.Minute)
	key := Key("claim", model.ContentTypeText)
	c.Put(key, model.AnalysisResult{ContentID: "id-1"})

	got, _ := c.Get(key)
	if !got.CacheHit {
		t.Error("Expected CacheHit set on the returned result")
	}

	// The stored copy must stay clean so stats reflect the original run.
	again, _ := c.Get(key)
	if !again.CacheHit {
		t.Error("Expected CacheHit set on every returned copy")
	}
}

func TestCache_Miss(t *testing.T) {
	c := New(time.Minute)
	if _, found := c.Get(Key("never stored", model.ContentTypeText)); found {
		t.Error("Expected miss for unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	key := Key("short lived", model.ContentTypeText)
	c.Put(key, model.AnalysisResult{ContentID: "id-1"})

	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("Expected entry to expire after TTL")
	}
}

func TestCache_AccessStats(t *testing.T) {
	c := New(time.Minute)
	key := Key("popular claim", model.ContentTypeText)
	c.Put(key, model.AnalysisResult{ContentID: "id-1"})

	for i := 0; i < 3; i++ {
		if _, found := c.Get(key); !found {
			t.Fatal("Expected cache hit")
		}
	}

	stats, found := c.GetStats(key)
	if !found {
		t.Fatal("Expected stats for live entry")
	}
	if stats.AccessCount != 3 {
		t.Errorf("Expected access count 3, got %d", stats.AccessCount)
	}
	if stats.LastAccessed.Before(stats.CreatedAt) {
		t.Error("Expected last access at or after creation")
	}
}

func TestCache_LastWriterWins(t *testing.T) {
	c := New(time.Minute)
	key := Key("contested", model.ContentTypeText)

	c.Put(key, model.AnalysisResult{ContentID: "first"})
	c.Put(key, model.AnalysisResult{ContentID: "second"})

	got, _ := c.Get(key)
	if got.ContentID != "second" {
		t.Errorf("Expected the later write to win, got %q", got.ContentID)
	}
}

func TestCache_SweepAndClear(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Put(Key("a", model.ContentTypeText), model.AnalysisResult{})
	c.Put(Key("b", model.ContentTypeText), model.AnalysisResult{})

	time.Sleep(20 * time.Millisecond)
	c.Sweep()
	if c.Len() != 0 {
		t.Errorf("Expected 0 entries after sweep, got %d", c.Len())
	}

	c.Put(Key("c", model.ContentTypeText), model.AnalysisResult{})
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected 0 entries after clear, got %d", c.Len())
	}
}
