package main

import (
	"os"

	"github.com/iliyamo/cinebook/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
