// Command fiberscheduler is a small demonstration harness for the
// fiberscheduler package: it builds a Scheduler from flags/config and
// drives one of a few illustrative scenarios to completion.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
