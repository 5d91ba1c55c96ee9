package main

import (
	"os"

	"reactapp-uitests/internal/infrastructure/env"
)

func main() {
	root := newRootCmd(env.NewEnvService())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
