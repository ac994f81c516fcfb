// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"net/http"

	"github.com/ardanlabs/juliachain/business/web/errs"
	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/state"
	"github.com/ardanlabs/juliachain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// ProposeBlock takes a mined block received from a peer, validates its
// proof of work and ledger effects, and folds it into the local chain.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var pow database.WithProofOfWork[database.Block]
	if err := web.Decode(r, &pow); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("propose block", "traceid", v.TraceID, "block", pow.Inner.ID, "events", len(pow.Inner.Events))
	if err := h.State.IngestBlock(pow); err != nil {
		if errors.Is(err, state.ErrInvariantViolation) {
			return err
		}

		return errs.NewTrusted(err, http.StatusNotAcceptable)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "accepted",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignalMining signals the node to start a mining operation.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveWinningChain()

	status := struct {
		ChainTip    database.BlockID `json:"chain_tip"`
		ChainLength int              `json:"chain_length"`
		Uncommitted int              `json:"uncommitted"`
	}{
		ChainTip:    chain[len(chain)-1].ID,
		ChainLength: len(chain),
		Uncommitted: h.State.QueryMempoolLength(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}
