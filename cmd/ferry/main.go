package main

import (
	"os"

	"github.com/go-ferry/ferry/cmd/ferry/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
