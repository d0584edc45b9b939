// bc-probe is a command-line client for exercising a BC camera
// connection: discovery, login, and a bounded Preview capture.
//
// Usage:
//
//	bc-probe discover --uid <UID>
//	bc-probe login --uid <UID> --username admin --password ...
//	bc-probe preview --host 192.168.1.50 --username admin --password ... --duration 10s
package main

import (
	"fmt"
	"os"

	"github.com/bcbridge/bc/cmd/bc-probe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
