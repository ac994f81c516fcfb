// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"slices"
	"time"

	"golang.org/x/exp/maps"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date     time.Time         `json:"date"`
	ChainID  uint16            `json:"chain_id"` // The chain id represents an unique id for this running instance.
	Accounts map[string]string `json:"accounts"` // Account id to registered public key.
	Mints    map[string]uint64 `json:"mints"`    // Account id to opening balance.
}

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Block builds the genesis block for this file: a root block registering
// the founding accounts and minting their opening balances. Accounts and
// mints are applied in ascending id order so every node derives an
// identical block id from the same file.
func (g Genesis) Block() database.Block {
	var events []database.Event

	accountIDs := maps.Keys(g.Accounts)
	slices.Sort(accountIDs)
	for _, id := range accountIDs {
		events = append(events, database.NewAccountEvent(database.AccountID(id), database.PublicKey(g.Accounts[id])))
	}

	mintIDs := maps.Keys(g.Mints)
	slices.Sort(mintIDs)
	for _, id := range mintIDs {
		events = append(events, database.MintEvent(database.AccountID(id), g.Mints[id]))
	}

	return database.NewBlock(nil, events)
}
