package main

import (
	"os"

	"github.com/sandeepkv93/petd/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
