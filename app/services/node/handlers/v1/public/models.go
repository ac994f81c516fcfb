package public

import "github.com/ardanlabs/juliachain/foundation/blockchain/database"

// submitTransfer is what a wallet submits to move value between accounts.
type submitTransfer struct {
	Benefactor  string `json:"benefactor" validate:"required"`
	Beneficiary string `json:"beneficiary" validate:"required"`
	Amount      uint64 `json:"amount" validate:"required,gt=0"`
	Signature   string `json:"signature" validate:"required"`
}

// transfer is the app level representation of a pending transfer.
type transfer struct {
	Benefactor      database.AccountID `json:"benefactor"`
	BenefactorName  string             `json:"benefactor_name"`
	Beneficiary     database.AccountID `json:"beneficiary"`
	BeneficiaryName string             `json:"beneficiary_name"`
	Amount          uint64             `json:"amount"`
	Signature       string             `json:"signature"`
}

// account is the app level representation of a ledger account.
type account struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance uint64             `json:"balance"`
}

// accountsInfo wraps the account summaries with chain context.
type accountsInfo struct {
	ChainTip    database.BlockID `json:"chain_tip"`
	ChainLength int              `json:"chain_length"`
	Uncommitted int              `json:"uncommitted"`
	Accounts    []account        `json:"accounts"`
}
