// Command flowattack loads a capacitated flow graph and simulates capacity
// attacks on it from the command line, an interactive shell or an HTTP API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
