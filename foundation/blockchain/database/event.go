package database

import "fmt"

// AccountID uniquely identifies an account on the ledger. For accounts
// created through the wallet tooling this is an ethereum style address,
// but the ledger treats the value as opaque.
type AccountID string

// PublicKey is the hex encoded compressed secp256k1 public key registered
// for an account when it is created.
type PublicKey string

// =============================================================================

// EventKind discriminates the set of ledger event types.
type EventKind string

// Set of event kinds the ledger accepts.
const (
	EventNewAccount EventKind = "new_account"
	EventMint       EventKind = "mint"
	EventTransfer   EventKind = "transfer"
)

// Event represents a single entry in a block's event sequence. The Kind
// field declares which of the remaining fields are meaningful. Events are
// comparable values so blocks can be checked for identical content.
type Event struct {
	Kind        EventKind `json:"kind"`
	Account     AccountID `json:"account,omitempty"`     // NewAccount: the id being claimed.
	PublicKey   PublicKey `json:"public_key,omitempty"`  // NewAccount: key that authorizes transfers.
	Benefactor  AccountID `json:"benefactor,omitempty"`  // Transfer: the account being debited.
	Beneficiary AccountID `json:"beneficiary,omitempty"` // Mint/Transfer: the account being credited.
	Amount      uint64    `json:"amount,omitempty"`      // Mint/Transfer: the value moved.
	Signature   string    `json:"signature,omitempty"`   // Transfer: hex signature by the benefactor.
}

// NewAccountEvent constructs an event that registers a new account.
func NewAccountEvent(account AccountID, publicKey PublicKey) Event {
	return Event{
		Kind:      EventNewAccount,
		Account:   account,
		PublicKey: publicKey,
	}
}

// MintEvent constructs an event that credits new value to an account.
func MintEvent(beneficiary AccountID, amount uint64) Event {
	return Event{
		Kind:        EventMint,
		Beneficiary: beneficiary,
		Amount:      amount,
	}
}

// TransferEvent constructs an event that moves value between two accounts.
func TransferEvent(benefactor AccountID, beneficiary AccountID, amount uint64, sig string) Event {
	return Event{
		Kind:        EventTransfer,
		Benefactor:  benefactor,
		Beneficiary: beneficiary,
		Amount:      amount,
		Signature:   sig,
	}
}

// String implements the fmt.Stringer interface for event logging.
func (ev Event) String() string {
	switch ev.Kind {
	case EventNewAccount:
		return fmt.Sprintf("new_account{%s}", ev.Account)
	case EventMint:
		return fmt.Sprintf("mint{%s += %d}", ev.Beneficiary, ev.Amount)
	case EventTransfer:
		return fmt.Sprintf("transfer{%s -> %s: %d}", ev.Benefactor, ev.Beneficiary, ev.Amount)
	}

	return fmt.Sprintf("unknown{%s}", ev.Kind)
}
