package state

import (
	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveWinningChain returns a snapshot of the accepted winning chain,
// ordered root to leaf.
func (s *State) RetrieveWinningChain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := make([]database.Block, len(s.chain))
	copy(chain, s.chain)

	return chain
}

// RetrieveAccounts returns a copy of the account summaries for the
// accepted chain.
func (s *State) RetrieveAccounts() map[database.AccountID]database.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Accounts()
}

// RetrieveEvents returns a copy of the accepted event log in order.
func (s *State) RetrieveEvents() []database.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Events()
}

// RetrieveMempool returns the transfers waiting to be mined.
func (s *State) RetrieveMempool() []database.Event {
	return s.mempool.PickBest(-1)
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}
