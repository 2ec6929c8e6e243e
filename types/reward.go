package types

import (
	"bytes"
	"io"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// BlockRewardResult is the per-block by-product of reward computation:
// the miner's base reward, the referee rewards it had to share, and the
// total fees collected.
type BlockRewardResult struct {
	TotalReward  *big.Int
	BaseReward   *big.Int
	TxFee        *big.Int
	RefereeShare map[common.Address]*big.Int
}

// refereeShareEntry is the RLP wire shape of one RefereeShare pair; RLP has
// no native map encoding, so the map is carried as a slice of pairs sorted
// by referee address, mirrored from how the teacher's RLP structs flatten
// associative data (e.g. access lists in go-ethereum's transaction types).
type refereeShareEntry struct {
	Referee common.Address
	Share   *big.Int
}

type rewardResultRLP struct {
	TotalReward *big.Int
	BaseReward  *big.Int
	TxFee       *big.Int
	Referees    []refereeShareEntry
}

// EncodeRLP implements rlp.Encoder.
func (r *BlockRewardResult) EncodeRLP(w io.Writer) error {
	wire := rewardResultRLP{TotalReward: r.TotalReward, BaseReward: r.BaseReward, TxFee: r.TxFee}
	for addr, share := range r.RefereeShare {
		wire.Referees = append(wire.Referees, refereeShareEntry{Referee: addr, Share: share})
	}
	sort.Slice(wire.Referees, func(i, j int) bool {
		return bytes.Compare(wire.Referees[i].Referee[:], wire.Referees[j].Referee[:]) < 0
	})
	return rlp.Encode(w, &wire)
}

// DecodeRLP implements rlp.Decoder.
func (r *BlockRewardResult) DecodeRLP(s *rlp.Stream) error {
	var wire rewardResultRLP
	if err := s.Decode(&wire); err != nil {
		return err
	}
	r.TotalReward = wire.TotalReward
	r.BaseReward = wire.BaseReward
	r.TxFee = wire.TxFee
	r.RefereeShare = make(map[common.Address]*big.Int, len(wire.Referees))
	for _, entry := range wire.Referees {
		r.RefereeShare[entry.Referee] = entry.Share
	}
	return nil
}
