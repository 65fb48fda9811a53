package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gqlatlas/gqlatlas/mcpserver"
)

var versionOption = flag.Bool("version", false, "gqlatlas version")

func main() {
	flag.Parse()

	if *versionOption {
		fmt.Printf("gqlatlas v%s\n", mcpserver.Version)

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
