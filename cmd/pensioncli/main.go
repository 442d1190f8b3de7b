package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Values from .env never override the environment. A missing file
	// is not an error.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
