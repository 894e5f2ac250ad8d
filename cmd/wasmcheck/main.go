// Command wasmcheck decodes and validates WebAssembly binary modules.
//
// Usage:
//
//	wasmcheck check [-j N] [--crosscheck] FILE...
//	wasmcheck inspect [-i] FILE
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "wasmcheck: %v\n", err)
		os.Exit(1)
	}
}
