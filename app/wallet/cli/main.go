package main

import "github.com/ardanlabs/juliachain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
