// Command menuadmin is the admin console for the restaurant menu.
// Build with: go build -o bin/menuadmin ./cmd/menuadmin
// Usage: menuadmin <command> [options]
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

	cli := NewCLI(os.Stdin, os.Stdout, os.Stderr)
	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
