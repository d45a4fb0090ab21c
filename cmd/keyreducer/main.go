package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rcliao/keyreducer/internal/cli"
)

func main() {
	// Optional; a missing .env is not an error.
	_ = godotenv.Load()

	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
