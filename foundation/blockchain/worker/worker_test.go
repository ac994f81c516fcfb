package worker_test

import (
	"crypto/ecdsa"
	"testing"
	"time"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/genesis"
	"github.com/ardanlabs/juliachain/foundation/blockchain/signature"
	"github.com/ardanlabs/juliachain/foundation/blockchain/state"
	"github.com/ardanlabs/juliachain/foundation/blockchain/worker"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_WorkerMinesOnSignal(t *testing.T) {
	payerKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate the payer key: %v", failed, err)
	}
	payeeKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate the payee key: %v", failed, err)
	}

	payerID := database.PublicKeyToAccountID(payerKey.PublicKey)
	payeeID := database.PublicKeyToAccountID(payeeKey.PublicKey)

	gen := genesis.Genesis{
		Date:    time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID: 1,
		Accounts: map[string]string{
			string(payerID): string(database.ToPublicKey(payerKey.PublicKey)),
			string(payeeID): string(database.ToPublicKey(payeeKey.PublicKey)),
		},
		Mints: map[string]uint64{
			string(payerID): 1_000,
		},
	}

	ev := func(v string, args ...any) { t.Logf("\t\t"+v, args...) }

	t.Log("Given the need for the worker to mine when mining is signaled.")
	{
		st, err := state.New(state.Config{
			Genesis:        gen,
			Verifier:       signature.Verifier{},
			EventsPerBlock: 10,
			EvHandler:      ev,
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
		}

		worker.Run(st, ev)
		defer st.Shutdown()

		// A start signal with an empty mempool drops out cleanly.
		st.Worker.SignalStartMining()

		if err := st.UpsertWalletTransfer(signedTransfer(t, payerKey, payerID, payeeID, 50)); err != nil {
			t.Fatalf("\t%s\tShould accept the transfer: %v", failed, err)
		}

		st.Worker.SignalStartMining()

		deadline := time.Now().Add(2 * time.Minute)
		for len(st.RetrieveWinningChain()) < 2 {
			if time.Now().After(deadline) {
				t.Fatalf("\t%s\tShould mine a block before the deadline.", failed)
			}
			time.Sleep(50 * time.Millisecond)
		}
		t.Logf("\t%s\tShould mine a block after the signal.", success)

		if got := st.RetrieveAccounts()[payeeID].Balance; got != 50 {
			t.Fatalf("\t%s\tShould settle the mined transfer, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould settle the mined transfer.", success)
	}
}

// signedTransfer produces a fully signed transfer event for the payer.
func signedTransfer(t *testing.T, key *ecdsa.PrivateKey, from database.AccountID, to database.AccountID, amount uint64) database.Event {
	t.Helper()

	sig, err := signature.Sign(signature.Transfer{
		Benefactor:  from,
		Beneficiary: to,
		Amount:      amount,
	}, key)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign the transfer: %v", failed, err)
	}

	return database.TransferEvent(from, to, amount, sig)
}
