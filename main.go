package main

import (
	"os"

	"github.com/mvrdal/qproj/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
