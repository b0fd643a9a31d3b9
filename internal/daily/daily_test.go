package daily_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hangsolve/go-server/internal/daily"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 2026-08-27 07:00 +10:00 is still 2026-08-26 in UTC.
	ts := time.Date(2026, 8, 27, 7, 0, 0, 0, loc)
	assert.Equal(t, "2026-08-26", daily.DateKey(ts))
}

func TestWordIndex(t *testing.T) {
	t.Run("deterministic and in range", func(t *testing.T) {
		a := daily.WordIndex("salt", "2026-08-26", 182)
		b := daily.WordIndex("salt", "2026-08-26", 182)
		assert.Equal(t, a, b)
		assert.GreaterOrEqual(t, a, 0)
		assert.Less(t, a, 182)
	})

	t.Run("varies with date and salt", func(t *testing.T) {
		seen := map[int]bool{}
		for day := 1; day <= 28; day++ {
			key := daily.DateKey(time.Date(2026, 2, day, 12, 0, 0, 0, time.UTC))
			seen[daily.WordIndex("salt", key, 1<<20)] = true
		}
		assert.Greater(t, len(seen), 20, "a month of words should barely collide")

		assert.NotEqual(t,
			daily.WordIndex("salt-a", "2026-08-26", 1<<20),
			daily.WordIndex("salt-b", "2026-08-26", 1<<20))
	})

	t.Run("degenerate list sizes", func(t *testing.T) {
		assert.Equal(t, 0, daily.WordIndex("salt", "2026-08-26", 0))
		assert.Equal(t, 0, daily.WordIndex("salt", "2026-08-26", 1))
	})
}
