package bootstrap

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestBindingFirstWins(t *testing.T) {
	require := require.New(t)
	reg := NewBindingRegistry()

	destA := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	destB := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	require.True(reg.TryBind("src1", destA))
	require.Equal(1, reg.Len())

	// Same pair again is an idempotent re-bind.
	require.True(reg.TryBind("src1", destA))
	require.Equal(1, reg.Len())

	// The source is taken; a different destination loses.
	require.False(reg.TryBind("src1", destB))

	// The destination is taken; a different source loses.
	require.False(reg.TryBind("src2", destA))

	// The losing attempts must not have mutated anything.
	dest, ok := reg.DestOf("src1")
	require.True(ok)
	require.Equal(destA, dest)
	src, ok := reg.SourceOf(destA)
	require.True(ok)
	require.Equal("src1", src)
	_, ok = reg.DestOf("src2")
	require.False(ok)
	_, ok = reg.SourceOf(destB)
	require.False(ok)
	require.Equal(1, reg.Len())

	// Both addresses free: a fresh pair binds.
	require.True(reg.TryBind("src2", destB))
	require.Equal(2, reg.Len())
}

func TestBindingLookupsOnEmpty(t *testing.T) {
	require := require.New(t)
	reg := NewBindingRegistry()

	_, ok := reg.DestOf("nobody")
	require.False(ok)
	_, ok = reg.SourceOf(common.Address{})
	require.False(ok)
	require.Zero(reg.Len())
}
