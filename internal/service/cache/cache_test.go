package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func TestCache_RoundTripCaseInsensitive(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithClock(clock.Now))

	c.Set("weather", "London", "sunny")

	got, ok := c.Get("weather", "london")
	require.True(t, ok)
	assert.Equal(t, "sunny", got)

	got, ok = c.Get("WEATHER", "  LONDON ")
	require.True(t, ok)
	assert.Equal(t, "sunny", got)
}

func TestCache_Expiry(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		advance time.Duration
		wantHit bool
	}{
		{"weather fresh", "weather", 5 * time.Minute, true},
		{"weather at ttl boundary", "weather", WeatherTTL, true},
		{"weather past ttl", "weather", WeatherTTL + time.Second, false},
		{"news within its longer ttl", "news", 12 * time.Minute, true},
		{"news past ttl", "news", NewsTTL + time.Second, false},
		{"other domain uses default", "stocks", DefaultTTL + time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			c := New[int](WithClock(clock.Now))

			c.Set(tt.domain, "id", 42)
			clock.Advance(tt.advance)

			_, ok := c.Get(tt.domain, "id")
			assert.Equal(t, tt.wantHit, ok)
			assert.Equal(t, tt.wantHit, c.Has(tt.domain, "id"))
			if !tt.wantHit {
				assert.Equal(t, 0, c.Len(), "stale entry should be collected on read")
			}
		})
	}
}

func TestCache_ForceRefreshAlwaysMisses(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithClock(clock.Now))

	c.ForceRefresh("weather", "paris")
	_, ok := c.Get("weather", "paris")
	assert.False(t, ok, "refresh of absent key")

	c.Set("weather", "Paris", "rain")
	c.ForceRefresh("weather", "PARIS")
	_, ok = c.Get("weather", "paris")
	assert.False(t, ok, "refresh of fresh key")

	c.Set("weather", "paris", "rain")
	clock.Advance(time.Hour)
	c.ForceRefresh("weather", "paris")
	_, ok = c.Get("weather", "paris")
	assert.False(t, ok, "refresh of stale key")
}

func TestCache_Capacity(t *testing.T) {
	clock := newFakeClock()
	c := New[int](WithClock(clock.Now))

	var keys []string
	for i := 0; i <= DefaultMaxItems; i++ {
		id := fmt.Sprintf("city-%02d", i)
		keys = append(keys, Key("weather", id))
		c.Set("weather", id, i)
		clock.Advance(time.Second)
		require.LessOrEqual(t, c.Len(), DefaultMaxItems)
	}

	// Overflow trimmed the store to maxItems-trim, then the new entry was added.
	want := keys[len(keys)-(DefaultMaxItems-DefaultTrim+1):]
	assert.Equal(t, want, c.Keys())
}

func TestCache_EvictsExpiredBeforeOldest(t *testing.T) {
	clock := newFakeClock()
	c := New[int](WithClock(clock.Now), WithMaxItems(5), WithTrim(2))

	c.Set("weather", "a", 1)
	c.Set("weather", "b", 2)
	clock.Advance(WeatherTTL + time.Second)
	c.Set("news", "c", 3)
	c.Set("news", "d", 4)
	c.Set("news", "e", 5)

	c.Set("news", "f", 6)

	assert.Equal(t, []string{"news:c", "news:d", "news:e", "news:f"}, c.Keys())
}

func TestCache_OverwriteAtCapacityDoesNotEvict(t *testing.T) {
	clock := newFakeClock()
	c := New[int](WithClock(clock.Now), WithMaxItems(3))

	c.Set("news", "a", 1)
	c.Set("news", "b", 2)
	c.Set("news", "c", 3)
	c.Set("news", "a", 10)

	assert.Equal(t, 3, c.Len())
	got, ok := c.Get("news", "a")
	require.True(t, ok)
	assert.Equal(t, 10, got)
}

func TestCache_TinyCapacity(t *testing.T) {
	c := New[int](WithMaxItems(1))

	c.Set("news", "a", 1)
	c.Set("news", "b", 2)

	assert.Equal(t, []string{"news:b"}, c.Keys())
}

func TestCache_ZeroTrimStillFreesSlot(t *testing.T) {
	c := New[int](WithMaxItems(3), WithTrim(0))

	c.Set("news", "a", 1)
	c.Set("news", "b", 2)
	c.Set("news", "c", 3)
	c.Set("news", "d", 4)

	assert.Equal(t, []string{"news:b", "news:c", "news:d"}, c.Keys())
}

func TestCache_Age(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithClock(clock.Now))

	_, ok := c.Age("weather", "oslo")
	assert.False(t, ok)

	c.Set("weather", "oslo", "snow")
	clock.Advance(3 * time.Minute)

	age, ok := c.Age("weather", "Oslo")
	require.True(t, ok)
	assert.Equal(t, 3*time.Minute, age)

	clock.Advance(WeatherTTL)
	_, ok = c.Age("weather", "oslo")
	assert.False(t, ok, "expired entries have no age")
}

func TestCache_RemoveAndClear(t *testing.T) {
	c := New[string]()

	c.Set("weather", "rome", "hot")
	c.Set("news", "tech", "articles")

	assert.True(t, c.Remove("weather", "ROME"))
	assert.False(t, c.Remove("weather", "rome"))
	assert.False(t, c.Has("weather", "rome"))
	assert.True(t, c.Has("news", "tech"))

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCache_TTLOptions(t *testing.T) {
	c := New[int](WithTTL("Weather", time.Minute), WithDefaultTTL(time.Hour))

	assert.Equal(t, time.Minute, c.TTL("weather"))
	assert.Equal(t, NewsTTL, c.TTL("news"))
	assert.Equal(t, time.Hour, c.TTL("other"))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](WithMaxItems(20))
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("k%d-%d", g, i%30)
				c.Set("news", id, i)
				c.Get("news", id)
				c.Has("news", id)
				c.Age("news", id)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 20)
}
