package main

import (
	"os"

	"github.com/fmohsen/cvbank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
