package availability

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestEmptyBoundaryContainsNothing(t *testing.T) {
	b := New()
	require.False(t, b.Contains(0))
}

func TestExtendUpperAndAdvanceLower(t *testing.T) {
	b := New()
	b.ExtendUpper(100)
	lower, upper, _, set := b.Range()
	require.True(t, set)
	require.Equal(t, uint64(100), lower)
	require.Equal(t, uint64(100), upper)

	b.ExtendUpper(200)
	b.AdvanceLower(150)
	require.True(t, b.Contains(180))
	require.False(t, b.Contains(100))
	require.False(t, b.Contains(201))
}

func TestReset(t *testing.T) {
	b := New()
	b.ExtendUpper(100)
	anchor := common.HexToHash("0xa1")
	b.Reset(anchor, 500)
	lower, upper, anchorHash, _ := b.Range()
	require.Equal(t, uint64(500), lower)
	require.Equal(t, uint64(500), upper)
	require.Equal(t, anchor, anchorHash)
	require.Equal(t, anchor, b.AnchorHash())
}
