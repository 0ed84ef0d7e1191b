package main

import (
	"fmt"
	"os"

	"github.com/arctir/kcore/kcorectl/cmd"
)

func main() {
	kcorectlCmd := cmd.SetupCLI()
	if err := kcorectlCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
