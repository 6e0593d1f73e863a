package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

func TestMemoryStoreLatest(t *testing.T) {
	s, err := NewMemoryStore(4)
	require.NoError(t, err)

	_, err = s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)

	first := weather.CycleResult{ID: uuid.New()}
	second := weather.CycleResult{ID: uuid.New(), Unavailable: true}
	s.Save(first)
	s.Save(second)

	got, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	prev, err := s.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, prev.ID)
	assert.Equal(t, 2, s.Len())
}

func TestMemoryStoreHistoryIsBounded(t *testing.T) {
	s, err := NewMemoryStore(2)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		r := weather.CycleResult{ID: uuid.New()}
		ids = append(ids, r.ID)
		s.Save(r)
	}

	assert.Equal(t, 2, s.Len())
	_, err = s.Get(ids[0])
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ids[2])
	assert.NoError(t, err)
}

func TestMemoryStoreDefaultHistory(t *testing.T) {
	s, err := NewMemoryStore(0)
	require.NoError(t, err)

	for i := 0; i < DefaultHistory+5; i++ {
		s.Save(weather.CycleResult{ID: uuid.New()})
	}
	assert.Equal(t, DefaultHistory, s.Len())
}
