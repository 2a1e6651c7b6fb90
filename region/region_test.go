package region

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/slabkit/internal/format"
)

// The handle is embedded verbatim in page metadata, so its size is part of
// the binary layout contract.
func TestRegionHandleSize(t *testing.T) {
	require.Equal(t, uintptr(format.RegionHandleSize), unsafe.Sizeof(Region{}))
}

func TestMapAligned_Alignment(t *testing.T) {
	for _, align := range []uintptr{format.PageSize8K, format.PageSize2M} {
		r, err := MapAligned(align, align, ReadWrite)
		require.NoError(t, err)
		require.True(t, format.IsAligned(r.Start(), align),
			"start %#x not aligned to %#x", r.Start(), align)
		require.Equal(t, align, r.Size())
		require.True(t, r.IsWritable())
		require.False(t, r.IsEmpty())
		require.NoError(t, r.Unmap())
	}
}

func TestMapAligned_BadInput(t *testing.T) {
	_, err := MapAligned(0, format.PageSize8K, ReadWrite)
	require.ErrorIs(t, err, ErrBadMapSize)

	_, err = MapAligned(format.PageSize8K, 96, ReadWrite)
	require.ErrorIs(t, err, ErrBadMapSize)

	_, err = MapAligned(format.PageSize8K, 0, ReadWrite)
	require.ErrorIs(t, err, ErrBadMapSize)
}

func TestBytes_AliasesMapping(t *testing.T) {
	r, err := MapAligned(format.PageSize8K, format.PageSize8K, ReadWrite)
	require.NoError(t, err)
	defer func() { require.NoError(t, r.Unmap()) }()

	b := r.Bytes()
	require.Len(t, b, format.PageSize8K)

	b[0] = 0xAB
	b[len(b)-1] = 0xCD
	again := r.Bytes()
	require.Equal(t, byte(0xAB), again[0])
	require.Equal(t, byte(0xCD), again[len(again)-1])
}

func TestTake_LeavesEmptySentinel(t *testing.T) {
	r, err := MapAligned(format.PageSize8K, format.PageSize8K, ReadWrite)
	require.NoError(t, err)

	start, size := r.Start(), r.Size()
	taken := r.Take()

	require.True(t, r.IsEmpty())
	require.False(t, r.IsWritable())
	require.Nil(t, r.Bytes())
	require.Equal(t, start, taken.Start())
	require.Equal(t, size, taken.Size())
	require.True(t, taken.IsWritable())

	require.NoError(t, taken.Unmap())
}

func TestUnmap_EmptyAndForeign(t *testing.T) {
	var empty Region
	require.NoError(t, empty.Unmap())

	r, err := MapAligned(format.PageSize8K, format.PageSize8K, ReadWrite)
	require.NoError(t, err)
	require.NoError(t, r.Unmap())
	// Unmap reset r to the sentinel, so a second call is a no-op.
	require.NoError(t, r.Unmap())

	foreign := FromRange(0xdead0000, format.PageSize8K, ReadWrite)
	require.ErrorIs(t, foreign.Unmap(), ErrNotMapped)
}

func TestProtect_TogglesWritability(t *testing.T) {
	r, err := MapAligned(format.PageSize8K, format.PageSize8K, ReadWrite)
	require.NoError(t, err)
	defer func() { require.NoError(t, r.Unmap()) }()

	r.Bytes()[0] = 1

	require.NoError(t, r.Protect(ReadOnly))
	require.False(t, r.IsWritable())
	require.Equal(t, byte(1), r.Bytes()[0])

	require.NoError(t, r.Protect(ReadWrite))
	require.True(t, r.IsWritable())
	r.Bytes()[0] = 2
}

func TestFromRange(t *testing.T) {
	r := FromRange(0x10000, 4096, ReadOnly)
	require.Equal(t, uintptr(0x10000), r.Start())
	require.Equal(t, uintptr(4096), r.Size())
	require.False(t, r.IsWritable())
	require.False(t, r.IsEmpty())
}
