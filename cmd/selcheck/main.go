package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jvitoroc/selcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrNotEquivalent) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
