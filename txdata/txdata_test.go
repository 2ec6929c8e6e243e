package txdata

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/conflux-chain/bdm/types"
)

func signedTx(t *testing.T, key string, nonce uint64) *types.SignedTransaction {
	t.Helper()
	priv, err := crypto.HexToECDSA(key)
	require.NoError(t, err)

	tx := &types.SignedTransaction{
		TransactionWithSignature: types.TransactionWithSignature{
			Nonce:    nonce,
			GasPrice: big.NewInt(1),
			Gas:      21000,
			Value:    big.NewInt(0),
		},
	}
	sig, err := crypto.Sign(tx.Hash().Bytes(), priv)
	require.NoError(t, err)
	tx.R = new(big.Int).SetBytes(sig[:32])
	tx.S = new(big.Int).SetBytes(sig[32:64])
	tx.V = sig[64]
	return tx
}

const testKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f25"

func TestRecoverUnsignedTxCachesSender(t *testing.T) {
	m := NewManager(Config{CacheMaintainInterval: time.Hour, CacheEntryTTL: time.Hour})
	defer m.Stop()

	tx := signedTx(t, testKey, 1)
	sender, err := m.RecoverUnsignedTx(tx)
	require.NoError(t, err)
	require.NotEqual(t, sender, (common.Address{}))
	require.Equal(t, sender, tx.From())
	require.Equal(t, 1, m.CacheLen())
}

func TestRecoverUnsignedTxWithOrderPreservesIndices(t *testing.T) {
	m := NewManager(Config{CacheMaintainInterval: time.Hour, CacheEntryTTL: time.Hour})
	defer m.Stop()

	txs := []*types.SignedTransaction{
		signedTx(t, testKey, 1),
		signedTx(t, testKey, 2),
		signedTx(t, testKey, 3),
	}
	errs := m.RecoverUnsignedTxWithOrder(txs)
	require.Len(t, errs, 3)
	for i, err := range errs {
		require.NoError(t, err, "index %d", i)
	}
	for _, tx := range txs {
		require.NotEqual(t, tx.From(), (common.Address{}))
	}
}

func TestFindMissingTxIndicesEncodedDoesNotMutate(t *testing.T) {
	m := NewManager(Config{CacheMaintainInterval: time.Hour, CacheEntryTTL: time.Hour})
	defer m.Stop()

	tx := signedTx(t, testKey, 1)
	cb := &types.CompactBlock{
		TxShortIDs:       []uint64{1, 2, 3},
		ReconstructedTxs: []*types.SignedTransaction{tx, nil, nil},
	}
	missing := m.FindMissingTxIndicesEncoded(cb)
	require.Equal(t, []int{1, 2}, missing)
	require.Len(t, cb.ReconstructedTxs, 3)
	require.Equal(t, tx, cb.ReconstructedTxs[0])
}
