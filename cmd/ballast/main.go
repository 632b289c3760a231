// Command ballast aggregates point masses and solves corrector masses.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roach88/ballast/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return cli.ExitSuccess
	}

	// ExitErrors were already reported by the command's formatter.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitCommandError
	}
	return cli.GetExitCode(err)
}
