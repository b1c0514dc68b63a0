package main

import (
	"os"

	"github.com/v26-solutions/cosmwasm-xtask/cmd/xtask/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
