package mem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"linkbio/pkg/clock"
)

func TestTTLStoreConsumeIsSingleUse(t *testing.T) {
	store := NewTTLStore(clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	store.Put("state-1", "", 10*time.Minute)

	_, ok := store.Consume("state-1")
	assert.True(t, ok)

	_, ok = store.Consume("state-1")
	assert.False(t, ok)
}

func TestTTLStoreExpiry(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewTTLStore(fake)
	store.Put("state-1", "payload", time.Minute)

	fake.Advance(2 * time.Minute)

	_, ok := store.Consume("state-1")
	assert.False(t, ok)
}

func TestTTLStoreEvictsOnPut(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewTTLStore(fake)
	store.Put("old", "", time.Minute)
	fake.Advance(time.Hour)
	store.Put("new", "", time.Minute)

	assert.Equal(t, 1, store.Len())
	payload, ok := store.Consume("new")
	assert.True(t, ok)
	assert.Empty(t, payload)
}
