package main

import (
	"os"

	"github.com/conorfennell/flashquiz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
