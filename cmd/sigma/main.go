// Command sigma runs, produces and checks zero-knowledge proofs of
// knowledge of a discrete logarithm.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := CLI().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
