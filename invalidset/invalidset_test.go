package invalidset

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestContainsInsert(t *testing.T) {
	s := New(4)
	h := common.HexToHash("0x01")
	require.False(t, s.Contains(h))
	s.Insert(h)
	require.True(t, s.Contains(h))
}

func TestVerifyInvalidReportsExisting(t *testing.T) {
	s := New(4)
	h := common.HexToHash("0x01")

	require.False(t, s.VerifyInvalid(h))
	require.True(t, s.Contains(h))
	require.True(t, s.VerifyInvalid(h))
}

func TestWeakEvictionBoundsCapacity(t *testing.T) {
	s := New(2)
	s.Insert(common.HexToHash("0x01"))
	s.Insert(common.HexToHash("0x02"))
	s.Insert(common.HexToHash("0x03"))
	require.LessOrEqual(t, s.Len(), 2)
}

func TestRemove(t *testing.T) {
	s := New(4)
	h := common.HexToHash("0x01")
	s.Insert(h)
	s.Remove(h)
	require.False(t, s.Contains(h))
}
