package ledger_test

import (
	"errors"
	"maps"
	"math"
	"slices"
	"testing"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/ledger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

// stubVerifier approves or rejects every transfer, standing in for the
// real signature capability.
type stubVerifier struct {
	err error
}

func (v stubVerifier) VerifyTransfer(blockID database.BlockID, eventIndex int, benefactor database.AccountID, beneficiary database.AccountID, amount uint64, publicKey database.PublicKey, sig string) error {
	return v.err
}

func accept(t *testing.T, l *ledger.Ledger, events ...database.Event) {
	t.Helper()

	for i, event := range events {
		if err := l.Accept(event, "blk", i, stubVerifier{}); err != nil {
			t.Fatalf("\t%s\tShould be able to accept event %s: %v", failed, event, err)
		}
	}
}

// =============================================================================

func Test_Conservation(t *testing.T) {
	t.Log("Given the need to conserve value across any valid event sequence.")
	{
		l := ledger.New()

		accept(t, l,
			database.NewAccountEvent("alice", "pk-alice"),
			database.NewAccountEvent("bob", "pk-bob"),
			database.NewAccountEvent("carol", "pk-carol"),
			database.MintEvent("alice", 1_000),
			database.MintEvent("bob", 250),
			database.TransferEvent("alice", "bob", 400, "sig1"),
			database.TransferEvent("bob", "carol", 650, "sig2"),
			database.TransferEvent("carol", "alice", 1, "sig3"),
		)

		var total uint64
		for _, account := range l.Accounts() {
			total += account.Balance
		}

		const minted = 1_000 + 250
		if total != minted {
			t.Fatalf("\t%s\tShould have total balances equal total mints, got %d, exp %d.", failed, total, minted)
		}
		t.Logf("\t%s\tShould have total balances equal total mints.", success)
	}
}

func Test_Balances(t *testing.T) {
	t.Log("Given the need to derive balances from the event log.")
	{
		l := ledger.New()

		accept(t, l,
			database.NewAccountEvent("alice", "pk-alice"),
			database.NewAccountEvent("bob", "pk-bob"),
			database.MintEvent("alice", 500),
			database.TransferEvent("alice", "bob", 120, "sig"),
		)

		alice, _ := l.Account("alice")
		bob, _ := l.Account("bob")

		if alice.Balance != 380 || bob.Balance != 120 {
			t.Fatalf("\t%s\tShould have balances 380/120, got %d/%d.", failed, alice.Balance, bob.Balance)
		}
		t.Logf("\t%s\tShould have balances 380/120.", success)

		if len(l.Events()) != 4 {
			t.Fatalf("\t%s\tShould have 4 events in the log, got %d.", failed, len(l.Events()))
		}
		t.Logf("\t%s\tShould have 4 events in the log.", success)
	}
}

func Test_Rejections(t *testing.T) {
	type table struct {
		name     string
		event    database.Event
		verifier ledger.TransferVerifier
		wantErr  error
	}

	tt := []table{
		{
			name:     "duplicate account",
			event:    database.NewAccountEvent("alice", "pk-other"),
			verifier: stubVerifier{},
			wantErr:  ledger.ErrAccountTaken,
		},
		{
			name:     "mint to unknown account",
			event:    database.MintEvent("mallory", 10),
			verifier: stubVerifier{},
			wantErr:  ledger.ErrNoSuchAccount,
		},
		{
			name:     "mint overflows",
			event:    database.MintEvent("rich", 1),
			verifier: stubVerifier{},
			wantErr:  ledger.ErrWouldOverflow,
		},
		{
			name:     "transfer to self",
			event:    database.TransferEvent("alice", "alice", 1, "sig"),
			verifier: stubVerifier{},
			wantErr:  ledger.ErrTransferToSelf,
		},
		{
			name:     "transfer from unknown account",
			event:    database.TransferEvent("mallory", "alice", 1, "sig"),
			verifier: stubVerifier{},
			wantErr:  ledger.ErrNoSuchAccount,
		},
		{
			name:     "transfer to unknown account",
			event:    database.TransferEvent("alice", "mallory", 1, "sig"),
			verifier: stubVerifier{},
			wantErr:  ledger.ErrNoSuchAccount,
		},
		{
			name:     "transfer overdraws",
			event:    database.TransferEvent("alice", "bob", 501, "sig"),
			verifier: stubVerifier{},
			wantErr:  ledger.ErrWouldOverdraw,
		},
		{
			name:     "transfer overflows beneficiary",
			event:    database.TransferEvent("alice", "rich", 1, "sig"),
			verifier: stubVerifier{},
			wantErr:  ledger.ErrWouldOverflow,
		},
		{
			name:     "transfer with bad signature",
			event:    database.TransferEvent("alice", "bob", 1, "sig"),
			verifier: stubVerifier{err: errors.New("no authority")},
			wantErr:  ledger.ErrInvalidSignature,
		},
	}

	t.Log("Given the need for rejections to leave the ledger unchanged.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s event.", testID, tst.name)
			{
				f := func(t *testing.T) {
					l := ledger.New()
					accept(t, l,
						database.NewAccountEvent("alice", "pk-alice"),
						database.NewAccountEvent("bob", "pk-bob"),
						database.NewAccountEvent("rich", "pk-rich"),
						database.MintEvent("alice", 500),
						database.MintEvent("rich", math.MaxUint64),
					)

					accountsBefore := l.Accounts()
					eventsBefore := l.Events()

					err := l.Accept(tst.event, "blk", 99, tst.verifier)
					if !errors.Is(err, tst.wantErr) {
						t.Fatalf("\t%s\tTest %d:\tShould reject with %v, got %v.", failed, testID, tst.wantErr, err)
					}
					t.Logf("\t%s\tTest %d:\tShould reject with %v.", success, testID, tst.wantErr)

					if !maps.Equal(accountsBefore, l.Accounts()) {
						t.Fatalf("\t%s\tTest %d:\tShould leave account summaries unchanged.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould leave account summaries unchanged.", success, testID)

					if !slices.Equal(eventsBefore, l.Events()) {
						t.Fatalf("\t%s\tTest %d:\tShould leave the event log unchanged.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould leave the event log unchanged.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_CloneIsolation(t *testing.T) {
	t.Log("Given the need for clones to be isolated from the original.")
	{
		l := ledger.New()
		accept(t, l,
			database.NewAccountEvent("alice", "pk-alice"),
			database.NewAccountEvent("bob", "pk-bob"),
			database.MintEvent("alice", 100),
		)

		clone := l.Clone()
		accept(t, clone, database.TransferEvent("alice", "bob", 40, "sig"))

		alice, _ := l.Account("alice")
		if alice.Balance != 100 {
			t.Fatalf("\t%s\tShould leave the original untouched, got balance %d.", failed, alice.Balance)
		}
		t.Logf("\t%s\tShould leave the original untouched.", success)

		cloneAlice, _ := clone.Account("alice")
		if cloneAlice.Balance != 60 {
			t.Fatalf("\t%s\tShould apply to the clone, got balance %d.", failed, cloneAlice.Balance)
		}
		t.Logf("\t%s\tShould apply to the clone.", success)
	}
}
