// Eunoia is a personal productivity and wellbeing tracker with AI-assisted reports.
package main

import (
	"fmt"
	"os"

	"github.com/swamp-dev/eunoia/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
