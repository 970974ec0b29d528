package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/taxseed/internal/cli"
	"github.com/vvka-141/taxseed/pkg/taxseed"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(taxseed.ExitPanic)
		}
	}()

	if os.Getenv("TAXSEED_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(taxseed.ExitCodeForError(err))
	}
}
