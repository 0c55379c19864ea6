package main

import (
	"os"

	"skill-assess/internal/config"
)

func main() {
	config.LoadDotEnv()
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
