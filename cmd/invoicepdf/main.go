// Command invoicepdf renders invoice JSON files to PDF without running the server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "invoicepdf:", err)
		os.Exit(1)
	}
}
