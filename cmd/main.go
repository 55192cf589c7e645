package main

import (
	"os"

	"github.com/soundprediction/ecopredicate/cmd/ecopredicate"
)

func main() {
	if err := ecopredicate.Execute(); err != nil {
		os.Exit(1)
	}
}
