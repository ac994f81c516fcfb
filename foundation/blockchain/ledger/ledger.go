// Package ledger maintains an event sourced view of account state and
// enforces the value conservation rules for accepting new events.
package ledger

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
)

// Set of errors for rejected events. A rejected event never mutates the
// ledger: validation completes in full before anything commits.
var (
	ErrAccountTaken     = errors.New("an account with the requested id already exists")
	ErrNoSuchAccount    = errors.New("an account in this event does not exist")
	ErrWouldOverdraw    = errors.New("would overdraw an account")
	ErrWouldOverflow    = errors.New("an account balance would overflow")
	ErrInvalidSignature = errors.New("invalid signature for transfer")
	ErrTransferToSelf   = errors.New("benefactor and beneficiary must differ")
)

// TransferVerifier is the capability that decides whether a signature
// authorizes a transfer. The ledger stays decoupled from any concrete
// signature scheme: it hands the verifier everything identifying the exact
// transfer at its exact position and accepts the verdict.
type TransferVerifier interface {
	VerifyTransfer(blockID database.BlockID, eventIndex int, benefactor database.AccountID, beneficiary database.AccountID, amount uint64, publicKey database.PublicKey, sig string) error
}

// Ledger owns the append-only event log and the account summaries derived
// from it. The summaries always equal the fold of the log from genesis.
type Ledger struct {
	events   []database.Event
	accounts map[database.AccountID]database.Account
}

// New constructs an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[database.AccountID]database.Account),
	}
}

// Clone returns a deep copy of the ledger. A candidate block can be
// applied to the copy and thrown away without touching the original.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{
		events:   slices.Clone(l.events),
		accounts: maps.Clone(l.accounts),
	}
}

// Accept validates the event in full and only then applies it. The block
// id and event index locate the event for the transfer verifier.
func (l *Ledger) Accept(event database.Event, blockID database.BlockID, eventIndex int, verifier TransferVerifier) error {
	switch event.Kind {
	case database.EventNewAccount:
		if _, exists := l.accounts[event.Account]; exists {
			return ErrAccountTaken
		}
		l.accounts[event.Account] = database.Account{PublicKey: event.PublicKey}

	case database.EventMint:
		beneficiary, exists := l.accounts[event.Beneficiary]
		if !exists {
			return ErrNoSuchAccount
		}
		if beneficiary.Balance > math.MaxUint64-event.Amount {
			return ErrWouldOverflow
		}

		// Minting authority is external policy. No issuer check here.
		beneficiary.Balance += event.Amount
		l.accounts[event.Beneficiary] = beneficiary

	case database.EventTransfer:
		if event.Benefactor == event.Beneficiary {
			return ErrTransferToSelf
		}

		benefactor, exists := l.accounts[event.Benefactor]
		if !exists {
			return ErrNoSuchAccount
		}
		beneficiary, exists := l.accounts[event.Beneficiary]
		if !exists {
			return ErrNoSuchAccount
		}

		if benefactor.Balance < event.Amount {
			return ErrWouldOverdraw
		}
		if beneficiary.Balance > math.MaxUint64-event.Amount {
			return ErrWouldOverflow
		}

		if err := verifier.VerifyTransfer(blockID, eventIndex, event.Benefactor, event.Beneficiary, event.Amount, benefactor.PublicKey, event.Signature); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
		}

		// All checks passed. Move the value in one step.
		benefactor.Balance -= event.Amount
		beneficiary.Balance += event.Amount
		l.accounts[event.Benefactor] = benefactor
		l.accounts[event.Beneficiary] = beneficiary

	default:
		return fmt.Errorf("unknown event kind %q", event.Kind)
	}

	l.events = append(l.events, event)

	return nil
}

// Accounts returns a copy of the current account summaries.
func (l *Ledger) Accounts() map[database.AccountID]database.Account {
	return maps.Clone(l.accounts)
}

// Account returns the summary for a single account id.
func (l *Ledger) Account(id database.AccountID) (database.Account, bool) {
	account, exists := l.accounts[id]
	return account, exists
}

// Events returns a copy of the accepted event log in order.
func (l *Ledger) Events() []database.Event {
	return slices.Clone(l.events)
}
