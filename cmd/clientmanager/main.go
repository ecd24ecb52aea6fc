package main

import (
	"fmt"
	"os"

	"github.com/subhstories/clientmanager/cmd/clientmanager/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "clientmanager: %v\n", err)
		os.Exit(1)
	}
}
