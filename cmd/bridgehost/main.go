package main

import (
	"os"

	"github.com/Iron-Ham/bridgehost/internal/cmd"
)

func main() {
	// cobra already printed the error
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
