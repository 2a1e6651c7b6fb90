package slab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewLayout_Validation covers the accepted and rejected shapes.
func TestNewLayout_Validation(t *testing.T) {
	l, err := NewLayout(64, 8)
	require.NoError(t, err)
	require.Equal(t, Layout{Size: 64, Align: 8}, l)

	// Alignment of one is the "don't care" layout.
	_, err = NewLayout(3, 1)
	require.NoError(t, err)

	_, err = NewLayout(0, 8)
	require.ErrorIs(t, err, ErrBadLayout)

	_, err = NewLayout(64, 0)
	require.ErrorIs(t, err, ErrBadLayout)

	_, err = NewLayout(64, 12)
	require.ErrorIs(t, err, ErrBadLayout)
}

// TestMustLayout_PanicsOnBadShape verifies the panicking variant.
func TestMustLayout_PanicsOnBadShape(t *testing.T) {
	require.Panics(t, func() { MustLayout(0, 8) })
	require.NotPanics(t, func() { MustLayout(64, 8) })
}
