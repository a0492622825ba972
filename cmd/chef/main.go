package main

import (
	"os"

	"github.com/pageza/pantrychef/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
