package main

import (
	"os"

	"github.com/user/manifest-service/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
