// Command alertctl queries a running alert receiver and renders its
// aggregates in the terminal.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
