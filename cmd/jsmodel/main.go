// Command jsmodel compiles JSON Schema documents into data models and validates
// documents against them.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reoring/jsmodel/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
