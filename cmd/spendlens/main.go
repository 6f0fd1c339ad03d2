package main

import (
	"os"

	"github.com/spendlens-dev/spendlens/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
