package main

import (
	"fmt"
	"os"

	"github.com/arb8020/ireul/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[91mError: %s\033[0m\n", err)
		os.Exit(1)
	}
}
