// Command adminctl is the operator CLI for the SafeSpace backend.
package main

import (
	"os"

	"github.com/safespace/backend/cmd/adminctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
