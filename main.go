// Command depdoctor inspects, updates, and audits the dependencies of
// JavaScript projects managed with npm or yarn.
package main

import (
	"fmt"
	"os"

	"github.com/depdoctor/depdoctor/cmd/cli"
)

func main() {
	if runError := cli.Execute(); runError != nil {
		fmt.Fprintln(os.Stderr, runError)
		os.Exit(1)
	}
}
