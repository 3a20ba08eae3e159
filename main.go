package main

import (
	"os"

	"library-service/cli"
)

func main() {
	os.Exit(cli.Execute())
}
