// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ardanlabs/juliachain/business/sys/validate"
	"github.com/ardanlabs/juliachain/business/web/errs"
	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/ledger"
	"github.com/ardanlabs/juliachain/foundation/blockchain/state"
	"github.com/ardanlabs/juliachain/foundation/events"
	"github.com/ardanlabs/juliachain/foundation/nameservice"
	"github.com/ardanlabs/juliachain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitWalletTransfer adds a new wallet signed transfer to the mempool.
func (h Handlers) SubmitWalletTransfer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTransfer
	if err := web.Decode(r, &st); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(st); err != nil {
		return err
	}

	event := database.TransferEvent(database.AccountID(st.Benefactor), database.AccountID(st.Beneficiary), st.Amount, st.Signature)

	h.Log.Infow("add transfer", "traceid", v.TraceID, "benefactor", st.Benefactor, "beneficiary", st.Beneficiary, "amount", st.Amount)
	if err := h.State.UpsertWalletTransfer(event); err != nil {
		if errors.Is(err, ledger.ErrNoSuchAccount) || errors.Is(err, ledger.ErrInvalidSignature) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	// Wake the miner now that there is work waiting.
	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transfer added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transfers.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct := web.Param(r, "account")

	mempool := h.State.RetrieveMempool()

	trans := make([]transfer, 0, len(mempool))
	for _, event := range mempool {
		if acct != "" && acct != string(event.Benefactor) && acct != string(event.Beneficiary) {
			continue
		}

		trans = append(trans, transfer{
			Benefactor:      event.Benefactor,
			BenefactorName:  h.NS.Lookup(event.Benefactor),
			Beneficiary:     event.Beneficiary,
			BeneficiaryName: h.NS.Lookup(event.Beneficiary),
			Amount:          event.Amount,
			Signature:       event.Signature,
		})
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Accounts returns the current account summaries for the winning chain.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct := web.Param(r, "account")

	ledgerAccounts := h.State.RetrieveAccounts()

	accts := make([]account, 0, len(ledgerAccounts))
	for accountID, info := range ledgerAccounts {
		if acct != "" && acct != string(accountID) {
			continue
		}

		accts = append(accts, account{
			Account: accountID,
			Name:    h.NS.Lookup(accountID),
			Balance: info.Balance,
		})
	}

	chain := h.State.RetrieveWinningChain()

	ai := accountsInfo{
		ChainTip:    chain[len(chain)-1].ID,
		ChainLength: len(chain),
		Uncommitted: h.State.QueryMempoolLength(),
		Accounts:    accts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// Chain returns the blocks of the winning chain, root to leaf.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveWinningChain()
	return web.Respond(ctx, w, chain, http.StatusOK)
}

// EventLog returns the accepted ledger events in order.
func (h Handlers) EventLog(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	evts := h.State.RetrieveEvents()
	if len(evts) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, evts, http.StatusOK)
}
