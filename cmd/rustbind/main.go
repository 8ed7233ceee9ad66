// Command rustbind builds Rust crates into Python packages through cffi.
package main

import (
	"os"

	"github.com/contriboss/rustbind"
)

func main() {
	code := execute(os.Args[1:])
	rustbind.RunExitHooks()
	os.Exit(code)
}
