package main

import (
	"os"

	"github.com/bibbank/credit-simulator/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(nil).Execute(); err != nil {
		os.Exit(1)
	}
}
