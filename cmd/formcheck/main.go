package main

import (
	"fmt"
	"os"

	"github.com/bjaus/formcheck/internal/cli"
)

func main() {
	settings, err := cli.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCommandError)
	}

	cmd := cli.NewRootCommand(settings)
	if err := cmd.Execute(); err != nil {
		code := cli.GetExitCode(err)
		if code == cli.ExitCommandError {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}
