// Package signature provides helper functions for signing and verifying
// transfer events.
package signature

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// juliaID is an arbitrary number added to the recovery id when signing.
// This makes it clear a signature comes from this chain. Ethereum and
// Bitcoin do this as well, but they use the value of 27.
const juliaID = 31

// Transfer is the payload a benefactor signs to authorize moving value.
type Transfer struct {
	Benefactor  database.AccountID `json:"benefactor"`
	Beneficiary database.AccountID `json:"beneficiary"`
	Amount      uint64             `json:"amount"`
}

// Sign uses the specified private key to sign the transfer payload and
// returns the hex encoded signature.
func Sign(tr Transfer, privateKey *ecdsa.PrivateKey) (string, error) {

	// Prepare the payload for signing.
	data, err := stamp(tr)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	// Brand the recovery id so the signature is unique to this chain.
	sig[crypto.RecoveryIDOffset] += juliaID

	return hexutil.Encode(sig), nil
}

// Verify checks the hex encoded signature authorizes the specified
// transfer payload on behalf of the registered public key.
func Verify(tr Transfer, publicKey database.PublicKey, sigStr string) error {
	sig, err := hexutil.Decode(sigStr)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}

	if len(sig) != crypto.SignatureLength {
		return errors.New("invalid signature length")
	}

	// Check the recovery id is either 0 or 1 once the brand is removed.
	v := sig[crypto.RecoveryIDOffset] - juliaID
	if v != 0 && v != 1 {
		return errors.New("invalid recovery id")
	}

	// Check the signature values are valid.
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, false) {
		return errors.New("invalid signature values")
	}

	// Prepare the payload for public key recovery.
	data, err := stamp(tr)
	if err != nil {
		return err
	}

	// Capture the public key associated with this payload and signature.
	rsv := make([]byte, crypto.SignatureLength)
	copy(rsv, sig[:crypto.RecoveryIDOffset])
	rsv[crypto.RecoveryIDOffset] = v

	pub, err := crypto.SigToPub(data, rsv)
	if err != nil {
		return fmt.Errorf("recovering public key: %w", err)
	}

	// The recovered key must match the key registered for the benefactor.
	if database.PublicKey(hexutil.Encode(crypto.CompressPubkey(pub))) != publicKey {
		return errors.New("signature does not match the registered public key")
	}

	return nil
}

// =============================================================================

// Verifier implements the ledger's transfer verification capability with
// recoverable secp256k1 signatures over the transfer payload.
type Verifier struct{}

// VerifyTransfer checks the signature authorizes the specified transfer.
// The block position is part of the capability contract, but wallet signed
// events can't bind it: the block id is a hash of the events, signatures
// included, so a position bound signature could never be produced first.
func (Verifier) VerifyTransfer(blockID database.BlockID, eventIndex int, benefactor database.AccountID, beneficiary database.AccountID, amount uint64, publicKey database.PublicKey, sig string) error {
	tr := Transfer{
		Benefactor:  benefactor,
		Beneficiary: beneficiary,
		Amount:      amount,
	}

	return Verify(tr, publicKey, sig)
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents the payload with the
// chain's stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Hash the payload into a 32 byte array for length consistency.
	txHash := crypto.Keccak256(v)

	// This stamp keeps signatures produced here unique to this chain.
	stamp := []byte("\x19Julia Signed Message:\n32")

	data := crypto.Keccak256(stamp, txHash)

	return data, nil
}
