// jitterz measures scheduling jitter on a single isolated core.
package main

import (
	"fmt"
	"os"

	"github.com/templexxx/jitterz/internal/cli"
)

func main() {
	if err := cli.Reexec(); err != nil {
		fmt.Fprintf(os.Stderr, "jitterz: re-exec without async preemption: %v\n", err)
	}

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jitterz: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
