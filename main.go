package main

import (
	"os"

	"github.com/cvmatch/cvmatch-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
