// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/genesis"
	"github.com/ardanlabs/juliachain/foundation/blockchain/graph"
	"github.com/ardanlabs/juliachain/foundation/blockchain/ledger"
	"github.com/ardanlabs/juliachain/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events occur in the
// processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining() (done func())
}

// =============================================================================

// Config represents the configuration required to start the blockchain node.
type Config struct {
	Genesis        genesis.Genesis
	Verifier       ledger.TransferVerifier
	EventsPerBlock int
	EvHandler      EventHandler
}

// State manages the block graph and the ledger derived from the accepted
// winning chain. One mutex spans both: a ledger rebuild reads the graph,
// so graph and ledger mutations must be serialized together.
type State struct {
	mu        sync.RWMutex
	evHandler EventHandler

	genesis        genesis.Genesis
	verifier       ledger.TransferVerifier
	eventsPerBlock int

	graph   *graph.Graph
	ledger  *ledger.Ledger
	chain   []database.Block
	mempool *mempool.Mempool

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.
	Worker Worker
}

// New constructs the state, seeding the graph and ledger from the genesis
// block. The genesis block is trusted and carries no proof of work.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	eventsPerBlock := cfg.EventsPerBlock
	if eventsPerBlock <= 0 {
		eventsPerBlock = 10
	}

	s := State{
		evHandler:      ev,
		genesis:        cfg.Genesis,
		verifier:       cfg.Verifier,
		eventsPerBlock: eventsPerBlock,
		graph:          graph.New(),
		ledger:         ledger.New(),
		mempool:        mempool.New(),
	}

	genesisBlock := cfg.Genesis.Block()

	if err := s.graph.AddBlock(genesisBlock); err != nil {
		return nil, fmt.Errorf("adding genesis block: %w", err)
	}

	led, err := s.replay(s.graph.WinningChain())
	if err != nil {
		return nil, fmt.Errorf("replaying genesis block: %w", err)
	}

	s.ledger = led
	s.chain = s.graph.WinningChain()

	ev("state: New: genesis block[%s] accounts[%d]", genesisBlock.ID, len(cfg.Genesis.Accounts))

	return &s, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// UpsertWalletTransfer accepts a signed transfer event from a wallet into
// the mempool after checking the signature against the benefactor's
// registered key, so obviously bogus submissions never wait for a miner.
func (s *State) UpsertWalletTransfer(event database.Event) error {
	if event.Kind != database.EventTransfer {
		return fmt.Errorf("only transfer events can be submitted, got %q", event.Kind)
	}

	s.mu.RLock()
	benefactor, exists := s.ledger.Account(event.Benefactor)
	s.mu.RUnlock()

	if !exists {
		return ledger.ErrNoSuchAccount
	}

	// Position arguments are zero values here. The transfer has no block
	// position until it is mined.
	if err := s.verifier.VerifyTransfer("", 0, event.Benefactor, event.Beneficiary, event.Amount, benefactor.PublicKey, event.Signature); err != nil {
		return fmt.Errorf("%w: %s", ledger.ErrInvalidSignature, err)
	}

	count := s.mempool.Upsert(event)
	s.evHandler("state: UpsertWalletTransfer: %s: total[%d]", event, count)

	return nil
}
