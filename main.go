package main

import (
	"fmt"
	"os"

	"github.com/arctir/kcore/cmd"
)

func main() {
	kcoreCmd := cmd.SetupCommands()
	if err := kcoreCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
