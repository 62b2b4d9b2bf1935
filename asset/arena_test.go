package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAddGet(t *testing.T) {
	var a Arena[string]
	h1 := a.Add("one")
	h2 := a.Add("two")

	v, ok := a.Get(h1)
	require.True(t, ok)
	assert.Equal(t, "one", v)

	v, ok = a.Get(h2)
	require.True(t, ok)
	assert.Equal(t, "two", v)
	assert.Equal(t, 2, a.Len())
}

func TestArenaZeroHandleNeverResolves(t *testing.T) {
	var a Arena[int]
	a.Add(7)

	var zero Handle[int]
	assert.True(t, zero.IsZero())
	_, ok := a.Get(zero)
	assert.False(t, ok)
}

func TestArenaRemoveTombstonesHandle(t *testing.T) {
	var a Arena[string]
	h := a.Add("gone")
	require.True(t, a.Remove(h))

	_, ok := a.Get(h)
	assert.False(t, ok, "removed handle must not resolve")
	assert.False(t, a.Remove(h), "double remove")
	assert.Equal(t, 0, a.Len())

	// Slot reuse bumps the generation; the old handle stays dead
	h2 := a.Add("new")
	assert.Equal(t, h.index, h2.index)
	assert.NotEqual(t, h, h2)
	_, ok = a.Get(h)
	assert.False(t, ok)
	v, ok := a.Get(h2)
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestArenaReplace(t *testing.T) {
	var a Arena[int]
	h := a.Add(1)
	require.True(t, a.Replace(h, 2))
	v, _ := a.Get(h)
	assert.Equal(t, 2, v)

	a.Remove(h)
	assert.False(t, a.Replace(h, 3))
}
