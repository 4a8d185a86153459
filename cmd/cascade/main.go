package main

import (
	"os"

	"github.com/conejocapital/cascadeflow/cmd/cascade/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
