package main

import (
	"os"

	"github.com/bowtie-json-schema/cravat/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
