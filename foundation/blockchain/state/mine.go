package state

import (
	"context"
	"errors"
	"math/rand"
	"runtime"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/julia"
)

// ErrNoTransfers is returned when a block is requested to be created and
// there are no transfers in the mempool.
var ErrNoTransfers = errors.New("no transfers in mempool")

// MineNewBlock assembles a candidate block from the mempool, performs the
// puzzle search for its id, and ingests the result locally. The search has
// no intrinsic bound, so the context is the only way out when the puzzle
// parameterization turns out to be sparse.
func (s *State) MineNewBlock(ctx context.Context) (database.WithProofOfWork[database.Block], error) {
	var zero database.WithProofOfWork[database.Block]

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	events := s.mempool.PickBest(s.eventsPerBlock)
	if len(events) == 0 {
		return zero, ErrNoTransfers
	}

	// Anchor the candidate to the tail of the accepted chain.
	s.mu.RLock()
	tail := s.chain[len(s.chain)-1].ID
	s.mu.RUnlock()

	block := database.NewBlock(&tail, events)
	params := julia.ParamsForBlock(block.ID)

	s.evHandler("state: MineNewBlock: MINING: perform work: block[%s] target[%d]", block.ID, params.TargetIterations)

	candidate, err := s.search(ctx, params)
	if err != nil {
		return zero, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return zero, ctx.Err()
	}

	pow := database.WithProofOfWork[database.Block]{
		Candidate: database.ToComplex(candidate),
		Inner:     block,
	}

	s.evHandler("state: MineNewBlock: MINING: update local state")

	if err := s.IngestBlock(pow); err != nil {
		return zero, err
	}

	// The transfers made it into the chain. Drop them from the pool.
	for _, event := range events {
		s.mempool.Delete(event)
	}

	return pow, nil
}

// search fans one puzzle searcher out per CPU, each with its own rand
// source. The first success cancels the rest; continued search would be
// harmless but there is nothing left to win.
func (s *State) search(ctx context.Context, params julia.Params) (complex128, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	searchers := runtime.NumCPU()
	found := make(chan complex128, searchers)

	for i := 0; i < searchers; i++ {
		go func(seed int64) {
			rng := rand.New(rand.NewSource(seed))
			candidate, err := julia.Solve(ctx, params, rng)
			if err != nil {
				return
			}

			select {
			case found <- candidate:
			default:
			}
			cancel()
		}(rand.Int63())
	}

	select {
	case candidate := <-found:
		return candidate, nil
	case <-ctx.Done():
		// A searcher may have won in the same instant the context ended.
		select {
		case candidate := <-found:
			return candidate, nil
		default:
			return 0, ctx.Err()
		}
	}
}
