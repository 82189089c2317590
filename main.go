package main

import (
	"fmt"
	"os"

	"fintracker/cmd/add"
	"fintracker/cmd/card"
	"fintracker/cmd/categorize"
	importcmd "fintracker/cmd/import"
	"fintracker/cmd/root"
	"fintracker/cmd/seed"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(add.Cmd)
	root.Cmd.AddCommand(seed.Cmd)
	root.Cmd.AddCommand(card.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
