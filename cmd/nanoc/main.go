// Command nanoc is the CLI entry point for the compiler core: tokenize,
// parse, and build C source into an object file, textual assembly,
// textual LLVM IR, or a linked executable.
package main

import (
	"fmt"
	"os"

	"github.com/nanoc-lang/nanoc/cmd/nanoc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
