package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := NewStencilCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stencil: %s\n", err)
		os.Exit(1)
	}
}
