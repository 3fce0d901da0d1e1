// Command qkart is a terminal storefront for the QKart catalog service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "qkart: %v\n", err)
		os.Exit(1)
	}
}
