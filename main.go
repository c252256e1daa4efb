package main

import (
	"os"

	"github.com/kondukto-io/dspolicy/cmd/cli"
)

func main() {
	cli.Execute(os.Args[1:])
}
