package main

import (
	"os"

	"groupctl/cmd/groupctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
