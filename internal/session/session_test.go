package session

import (
	"testing"

	"github.com/Hareesh108/haruDB/internal/engine"
	"github.com/stretchr/testify/require"
)

func TestPutThenGet(t *testing.T) {
	ctx := New(8)
	v := engine.NewIntVector([]int32{1, 2, 3})
	ctx.Put("handle1", v)

	got, err := ctx.Get("handle1")
	require.NoError(t, err)
	require.Same(t, v, got)
}

func TestGetMissingHandle(t *testing.T) {
	ctx := New(8)
	_, err := ctx.Get("nope")
	require.Error(t, err)
}

func TestPutReplacesExistingBinding(t *testing.T) {
	ctx := New(8)
	ctx.Put("h", engine.NewIntVector([]int32{1}))
	v2 := engine.NewIntVector([]int32{2})
	ctx.Put("h", v2)

	got, err := ctx.Get("h")
	require.NoError(t, err)
	require.Same(t, v2, got)
	require.Equal(t, 1, ctx.Len())
}

func TestCapacityDoublesWhenFull(t *testing.T) {
	ctx := New(2)
	require.Equal(t, 2, ctx.Capacity())

	ctx.Put("a", engine.NewIntVector([]int32{1}))
	ctx.Put("b", engine.NewIntVector([]int32{2}))
	require.Equal(t, 2, ctx.Capacity())

	ctx.Put("c", engine.NewIntVector([]int32{3}))
	require.Equal(t, 4, ctx.Capacity())
	require.Equal(t, 3, ctx.Len())
}
