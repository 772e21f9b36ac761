package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hexfront/internal/game/dice"
)

func TestChance_Bounds(t *testing.T) {
	src := dice.NewSequence(99, 0)
	assert.False(t, dice.Chance(src, 0))
	assert.True(t, dice.Chance(src, 100))
}

func TestChance_UsesDraw(t *testing.T) {
	// 29 < 30 succeeds, 30 < 30 fails
	src := dice.NewSequence(29, 30)
	assert.True(t, dice.Chance(src, 30))
	assert.False(t, dice.Chance(src, 30))
}

func TestSequence_WrapsAndExhausts(t *testing.T) {
	src := dice.NewSequence(7, -1)
	assert.Equal(t, 2, src.Intn(5))
	assert.Equal(t, 4, src.Intn(5))
	assert.Equal(t, 0, src.Intn(5))
}

func TestLoggedSource_LogsDraws(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	src := dice.NewLoggedSource(dice.NewSequence(3), zap.New(core))
	assert.Equal(t, 3, src.Intn(10))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(10), logs.All()[0].ContextMap()["bound"])
}

func TestPropertyCryptoSource_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 1000).Draw(rt, "n")
		v := src.Intn(n)
		assert.GreaterOrEqual(rt, v, 0)
		assert.Less(rt, v, n)
	})
}

func TestPropertyShuffle_IsPermutation(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 50).Draw(rt, "n")
		xs := make([]int, n)
		for i := range xs {
			xs[i] = i
		}
		dice.Shuffle(src, n, func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
		seen := make(map[int]bool, n)
		for _, x := range xs {
			assert.False(rt, seen[x], "duplicate %d", x)
			seen[x] = true
		}
		assert.Len(rt, seen, n)
	})
}

func TestPropertySample_DistinctAndBounded(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		k := rapid.IntRange(0, 40).Draw(rt, "k")
		got := dice.Sample(src, n, k)
		assert.Len(rt, got, min(n, k))
		seen := make(map[int]bool)
		for _, i := range got {
			assert.False(rt, seen[i])
			assert.GreaterOrEqual(rt, i, 0)
			assert.Less(rt, i, n)
			seen[i] = true
		}
	})
}
