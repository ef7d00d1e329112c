package main

import (
	"os"

	"github.com/gearguard-systems/gearguard-stack/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
