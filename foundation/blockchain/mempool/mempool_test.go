package mempool_test

import (
	"fmt"
	"testing"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// transferWith builds a transfer event with a synthetic signature so pool
// keying can be exercised without real keys.
func transferWith(sig string, amount uint64) database.Event {
	return database.TransferEvent("0xPayer", "0xPayee", amount, sig)
}

func Test_UpsertDelete(t *testing.T) {
	t.Log("Given the need to manage transfers in the pool.")
	{
		mp := mempool.New()

		ev1 := transferWith("0xsig1", 100)
		ev2 := transferWith("0xsig2", 200)

		if count := mp.Upsert(ev1); count != 1 {
			t.Fatalf("\t%s\tShould report one transfer after the first upsert, got %d.", failed, count)
		}
		if count := mp.Upsert(ev2); count != 2 {
			t.Fatalf("\t%s\tShould report two transfers after the second upsert, got %d.", failed, count)
		}
		t.Logf("\t%s\tShould be able to add transfers.", success)

		// Same signature, updated amount: a replacement, not a new entry.
		if count := mp.Upsert(transferWith("0xsig1", 150)); count != 2 {
			t.Fatalf("\t%s\tShould replace a transfer with the same signature, got %d.", failed, count)
		}
		t.Logf("\t%s\tShould replace a transfer with the same signature.", success)

		mp.Delete(ev2)
		if count := mp.Count(); count != 1 {
			t.Fatalf("\t%s\tShould report one transfer after the delete, got %d.", failed, count)
		}
		t.Logf("\t%s\tShould be able to delete a transfer.", success)

		mp.Truncate()
		if count := mp.Count(); count != 0 {
			t.Fatalf("\t%s\tShould report an empty pool after truncate, got %d.", failed, count)
		}
		t.Logf("\t%s\tShould be able to truncate the pool.", success)
	}
}

func Test_PickBestOrdering(t *testing.T) {
	t.Log("Given the need to pick the best transfers for the next block.")
	{
		mp := mempool.New()

		amounts := []uint64{50, 300, 100, 300, 200}
		for i, amount := range amounts {
			mp.Upsert(transferWith(fmt.Sprintf("0xsig%d", i), amount))
		}

		picked := mp.PickBest(3)
		if len(picked) != 3 {
			t.Fatalf("\t%s\tShould pick exactly three transfers, got %d.", failed, len(picked))
		}
		t.Logf("\t%s\tShould pick exactly three transfers.", success)

		// Largest amounts first. The two 300s tie and break on signature.
		want := []uint64{300, 300, 200}
		for i, amount := range want {
			if picked[i].Amount != amount {
				t.Fatalf("\t%s\tShould order by amount descending, got %d at position %d.", failed, picked[i].Amount, i)
			}
		}
		if picked[0].Signature > picked[1].Signature {
			t.Fatalf("\t%s\tShould break amount ties by signature.", failed)
		}
		t.Logf("\t%s\tShould order by amount with signature tie breaking.", success)

		all := mp.PickBest(-1)
		if len(all) != len(amounts) {
			t.Fatalf("\t%s\tShould return the whole pool for -1, got %d.", failed, len(all))
		}
		t.Logf("\t%s\tShould return the whole pool for -1.", success)

		over := mp.PickBest(100)
		if len(over) != len(amounts) {
			t.Fatalf("\t%s\tShould cap the pick at the pool size, got %d.", failed, len(over))
		}
		t.Logf("\t%s\tShould cap the pick at the pool size.", success)
	}
}
