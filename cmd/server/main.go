package main

import (
	"context"
	"fmt"
	"os"

	"github.com/GTD-web/ems-backend-sub025/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
