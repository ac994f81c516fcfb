package signature_test

import (
	"testing"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/ledger"
	"github.com/ardanlabs/juliachain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// The concrete verifier must satisfy the ledger's capability contract.
var _ ledger.TransferVerifier = signature.Verifier{}

func Test_SignVerify(t *testing.T) {
	t.Log("Given the need to sign and verify a transfer payload.")
	{
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %v", failed, err)
		}

		tr := signature.Transfer{
			Benefactor:  database.PublicKeyToAccountID(privateKey.PublicKey),
			Beneficiary: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32",
			Amount:      250,
		}

		sig, err := signature.Sign(tr, privateKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign the transfer: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign the transfer.", success)

		publicKey := database.ToPublicKey(privateKey.PublicKey)
		if err := signature.Verify(tr, publicKey, sig); err != nil {
			t.Fatalf("\t%s\tShould be able to verify the signature: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to verify the signature.", success)
	}
}

func Test_VerifyRejectsTampering(t *testing.T) {
	t.Log("Given the need to reject signatures that don't authorize the payload.")
	{
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %v", failed, err)
		}
		otherKey, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a second key: %v", failed, err)
		}

		tr := signature.Transfer{
			Benefactor:  database.PublicKeyToAccountID(privateKey.PublicKey),
			Beneficiary: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32",
			Amount:      250,
		}

		sig, err := signature.Sign(tr, privateKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign the transfer: %v", failed, err)
		}

		publicKey := database.ToPublicKey(privateKey.PublicKey)

		// A changed amount shifts the recovered key away from the
		// registered one.
		tampered := tr
		tampered.Amount = 9_999
		if err := signature.Verify(tampered, publicKey, sig); err == nil {
			t.Fatalf("\t%s\tShould reject a tampered amount.", failed)
		}
		t.Logf("\t%s\tShould reject a tampered amount.", success)

		if err := signature.Verify(tr, database.ToPublicKey(otherKey.PublicKey), sig); err == nil {
			t.Fatalf("\t%s\tShould reject a signature from a different key.", failed)
		}
		t.Logf("\t%s\tShould reject a signature from a different key.", success)

		if err := signature.Verify(tr, publicKey, "0xdeadbeef"); err == nil {
			t.Fatalf("\t%s\tShould reject a malformed signature.", failed)
		}
		t.Logf("\t%s\tShould reject a malformed signature.", success)
	}
}

func Test_VerifierCapability(t *testing.T) {
	t.Log("Given the need for the verifier capability to check ledger transfers.")
	{
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %v", failed, err)
		}

		benefactor := database.PublicKeyToAccountID(privateKey.PublicKey)
		beneficiary := database.AccountID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")

		sig, err := signature.Sign(signature.Transfer{
			Benefactor:  benefactor,
			Beneficiary: beneficiary,
			Amount:      10,
		}, privateKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign the transfer: %v", failed, err)
		}

		verifier := signature.Verifier{}
		publicKey := database.ToPublicKey(privateKey.PublicKey)

		if err := verifier.VerifyTransfer("0xblock", 3, benefactor, beneficiary, 10, publicKey, sig); err != nil {
			t.Fatalf("\t%s\tShould accept the authorized transfer: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept the authorized transfer.", success)

		if err := verifier.VerifyTransfer("0xblock", 3, benefactor, beneficiary, 11, publicKey, sig); err == nil {
			t.Fatalf("\t%s\tShould reject an unauthorized amount.", failed)
		}
		t.Logf("\t%s\tShould reject an unauthorized amount.", success)
	}
}
