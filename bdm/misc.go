package bdm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rawdb"
)

// Terminals returns the current DAG terminal-block set (blocks with no
// known children), the BDM's frontier.
func (m *BlockDataManager) Terminals() []common.Hash {
	m.terminalsMu.RLock()
	defer m.terminalsMu.RUnlock()
	out := make([]common.Hash, len(m.terminals))
	copy(out, m.terminals)
	return out
}

// SetTerminals replaces the current terminal-block set and persists it.
func (m *BlockDataManager) SetTerminals(hashes []common.Hash) error {
	m.terminalsMu.Lock()
	m.terminals = append([]common.Hash(nil), hashes...)
	m.terminalsMu.Unlock()
	return rawdb.WriteTerminals(m.db, hashes)
}

// AddTerminal appends hash to the terminal-block set if not already
// present, and removes parent if it was previously a terminal (its
// child hash now supersedes it).
func (m *BlockDataManager) AddTerminal(hash, parent common.Hash) error {
	m.terminalsMu.Lock()
	var next []common.Hash
	seen := false
	for _, h := range m.terminals {
		if h == parent {
			continue
		}
		if h == hash {
			seen = true
		}
		next = append(next, h)
	}
	if !seen {
		next = append(next, hash)
	}
	m.terminals = next
	snapshot := append([]common.Hash(nil), next...)
	m.terminalsMu.Unlock()
	return rawdb.WriteTerminals(m.db, snapshot)
}

// GetExecutedEpochSet returns the ordered block-hash set executed under
// epochHash, or (nil, nil) if the epoch hasn't been executed.
func (m *BlockDataManager) GetExecutedEpochSet(epochHash common.Hash) ([]common.Hash, error) {
	return rawdb.ReadExecutedEpochSet(m.db, epochHash)
}

// SetExecutedEpochSet persists the executed block-hash set for epochHash.
func (m *BlockDataManager) SetExecutedEpochSet(epochHash common.Hash, hashes []common.Hash) error {
	return rawdb.WriteExecutedEpochSet(m.db, epochHash, hashes)
}

// GetSkippedEpochSet returns the block-hash set ordered into but skipped
// by epochHash, or (nil, nil) if none is recorded.
func (m *BlockDataManager) GetSkippedEpochSet(epochHash common.Hash) ([]common.Hash, error) {
	return rawdb.ReadSkippedEpochSet(m.db, epochHash)
}

// SetSkippedEpochSet persists the skipped block-hash set for epochHash.
func (m *BlockDataManager) SetSkippedEpochSet(epochHash common.Hash, hashes []common.Hash) error {
	return rawdb.WriteSkippedEpochSet(m.db, epochHash, hashes)
}
