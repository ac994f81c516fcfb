package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/julia"
	"github.com/ardanlabs/juliachain/foundation/blockchain/ledger"
)

// ErrInvariantViolation wraps failures that signal a broken structural
// assumption, such as two different blocks under one id. These are not
// ordinary rejections and the caller should treat them as fatal.
var ErrInvariantViolation = errors.New("invariant violation")

// IngestBlock validates a mined candidate block and, when it changes the
// fork choice outcome, brings the ledger in line with the new winning
// chain. Proof of work alone never certifies ledger validity: a chain
// whose replay fails is invalid for fork choice and the state falls back
// to the best alternative chain that replays cleanly.
func (s *State) IngestBlock(pow database.WithProofOfWork[database.Block]) error {
	block := pow.Inner

	s.evHandler("state: IngestBlock: started: block[%s] events[%d]", block.ID, len(block.Events))
	defer s.evHandler("state: IngestBlock: completed: block[%s]", block.ID)

	// The puzzle parameters derive purely from the declared id, so every
	// validator poses the identical puzzle for the identical block.
	params := julia.ParamsForBlock(block.ID)
	if _, err := julia.Check(params, pow.Candidate.Complex128()); err != nil {
		return fmt.Errorf("proof of work rejected: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.graph.AddBlock(block); err != nil {
		return fmt.Errorf("%w: %s", ErrInvariantViolation, err)
	}

	winning := s.graph.WinningChain()

	// The fork choice outcome didn't move: the block joined a losing
	// branch, or this was an idempotent re-add. The ledger stands.
	if chainsEqual(s.chain, winning) {
		return nil
	}

	// Pure append: only the new tail block's events need applying. The
	// clone keeps the accepted ledger untouched if any event fails.
	if len(winning) > 0 && chainsEqual(s.chain, winning[:len(winning)-1]) {
		tail := winning[len(winning)-1]

		trial, err := applyBlock(s.ledger, tail, s.verifier)
		if err == nil {
			s.ledger = trial
			s.chain = winning
			s.evHandler("state: IngestBlock: appended: chain length[%d]", len(winning))
			return nil
		}

		s.fallback(err)
		return fmt.Errorf("block rejected by ledger: %w", err)
	}

	// The fork choice reorganized. Rebuild the ledger from scratch by
	// replaying the new winning chain through a fresh instance.
	s.evHandler("state: IngestBlock: REORGANIZE: chain length[%d]", len(winning))

	led, err := s.replay(winning)
	if err == nil {
		s.ledger = led
		s.chain = winning
		return nil
	}

	s.fallback(err)
	return fmt.Errorf("winning chain rejected by ledger: %w", err)
}

// =============================================================================

// fallback adopts the best alternative chain whose replay succeeds. Every
// root to leaf path is considered in fork choice preference order and
// scored by the longest prefix that replays cleanly, so a chain poisoned
// by one bad block still contributes its valid ancestry.
func (s *State) fallback(cause error) {
	s.evHandler("state: fallback: started: %s", cause)

	var bestChain []database.Block
	bestLedger := ledger.New()

	for _, chain := range s.graph.Chains() {
		led, prefix := s.replayPrefix(chain)
		if len(prefix) > len(bestChain) {
			bestChain = prefix
			bestLedger = led
		}
	}

	s.chain = bestChain
	s.ledger = bestLedger

	s.evHandler("state: fallback: completed: chain length[%d]", len(bestChain))
}

// replay folds the chain's events into a fresh ledger, failing on the
// first event any block carries that violates the ledger invariants.
func (s *State) replay(chain []database.Block) (*ledger.Ledger, error) {
	led := ledger.New()

	for _, block := range chain {
		next, err := applyBlock(led, block, s.verifier)
		if err != nil {
			return nil, err
		}
		led = next
	}

	return led, nil
}

// replayPrefix folds the chain's events into a fresh ledger, stopping at
// the first invalid block. It returns the ledger for the prefix that
// replayed cleanly along with that prefix.
func (s *State) replayPrefix(chain []database.Block) (*ledger.Ledger, []database.Block) {
	led := ledger.New()

	for i, block := range chain {
		next, err := applyBlock(led, block, s.verifier)
		if err != nil {
			return led, chain[:i]
		}
		led = next
	}

	return led, chain
}

// applyBlock applies every event in the block against a clone of the
// ledger, so a block is accepted in full or not at all.
func applyBlock(led *ledger.Ledger, block database.Block, verifier ledger.TransferVerifier) (*ledger.Ledger, error) {
	trial := led.Clone()

	for i, event := range block.Events {
		if err := trial.Accept(event, block.ID, i, verifier); err != nil {
			return nil, fmt.Errorf("block[%s] event[%d] %s: %w", block.ID, i, event, err)
		}
	}

	return trial, nil
}

// chainsEqual reports whether two chains name the same blocks in order.
func chainsEqual(a []database.Block, b []database.Block) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}

	return true
}
