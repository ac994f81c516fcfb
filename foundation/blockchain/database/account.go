package database

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Account represents the summary the ledger maintains for a single
// account id: the current balance and the registered public key.
type Account struct {
	Balance   uint64    `json:"balance"`
	PublicKey PublicKey `json:"public_key"`
}

// =============================================================================

// PublicKeyToAccountID converts a public key into the account id the
// wallet tooling registers on the ledger.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(crypto.PubkeyToAddress(pk).String())
}

// ToPublicKey converts a public key into its hex encoded compressed form
// for storage in a NewAccount event.
func ToPublicKey(pk ecdsa.PublicKey) PublicKey {
	return PublicKey(hexutil.Encode(crypto.CompressPubkey(&pk)))
}
