package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	// Interrupted runs already reported what they were doing.
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "cleanplate:", err)
	}
	os.Exit(1)
}
