package main

import (
	"os"

	"github.com/rickcomics/myprotectivemasks/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
