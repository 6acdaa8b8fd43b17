package main

import (
	"github.com/Jaskaranbir/mem-bank-ledger/cli"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
)

func main() {
	err := cli.Execute()
	if err != nil {
		logger.NewLogger("main").Fatalf("%s", err)
	}
}
