package main

import (
	"os"

	"github.com/ordersight/ordersight/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
