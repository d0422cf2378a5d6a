package flakeid

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextUnique(t *testing.T) {
	require.NoError(t, Init("3"))

	seen := map[string]bool{}
	for i := 0; i < 10_000; i++ {
		id := Next()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNextSortable(t *testing.T) {
	require.NoError(t, Init("3"))

	a, err := strconv.ParseInt(Next(), 10, 64)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	b, err := strconv.ParseInt(Next(), 10, 64)
	require.NoError(t, err)

	assert.Less(t, a, b)
}

func TestTimestamp(t *testing.T) {
	require.NoError(t, Init("3"))

	before := time.Now().UnixMilli()
	id := Next()
	after := time.Now().UnixMilli()

	ts, ok := Timestamp(id)
	require.True(t, ok)
	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)

	_, ok = Timestamp("not-a-number")
	assert.False(t, ok)
}

func TestInitRejectsGarbage(t *testing.T) {
	assert.Error(t, Init("node-one"))
	require.NoError(t, Init("0"))
}
