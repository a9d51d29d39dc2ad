package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/misterclayt0n/corefit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
