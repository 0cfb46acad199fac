// main is the entry point for the bcat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/bcat/cmd"
	"github.com/huangsam/bcat/internal/mapstore"
)

func main() {
	err := cmd.Execute()
	mapstore.CloseMapping()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
