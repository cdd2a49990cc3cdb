// Command facilityspread runs the facility movement and respiratory
// pathogen transmission engine against a YAML parameters file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
