package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	url    string
	to     string
	amount uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and submit a transfer",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}

		sendWithDetails(privateKey)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account receiving the value.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
}

func sendWithDetails(privateKey *ecdsa.PrivateKey) {
	tr := signature.Transfer{
		Benefactor:  database.PublicKeyToAccountID(privateKey.PublicKey),
		Beneficiary: database.AccountID(to),
		Amount:      amount,
	}

	sig, err := signature.Sign(tr, privateKey)
	if err != nil {
		log.Fatal(err)
	}

	payload := struct {
		Benefactor  string `json:"benefactor"`
		Beneficiary string `json:"beneficiary"`
		Amount      uint64 `json:"amount"`
		Signature   string `json:"signature"`
	}{
		Benefactor:  string(tr.Benefactor),
		Beneficiary: string(tr.Beneficiary),
		Amount:      tr.Amount,
		Signature:   sig,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(body))
}
