package main

import (
	"os"

	"metzctl/cmd"
	"metzctl/internal/metz"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(metz.ExitCode(err))
	}
}
