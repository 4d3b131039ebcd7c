package main

import (
	"fmt"
	"os"

	"github.com/storerate/storerate/cli"
	"github.com/storerate/storerate/cli/cmd"
)

func main() {
	root := cli.RootCmd()
	if err := root.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
