// Command pmids curates PubMed ID lists offline: it parses typed or file batches into
// a working set, prints the set as a table and produces the submission form value.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
