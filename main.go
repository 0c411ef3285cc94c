package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/pagechat/pagechat/cmd"
)

func main() {
	// API keys and provider settings come from the environment; a local
	// .env file is a convenience for development and optional in production.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
