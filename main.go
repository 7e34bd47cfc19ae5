package main

import (
	"os"

	"github.com/llehouerou/tapedeck/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
