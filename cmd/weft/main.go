package main

import (
	"os"

	"github.com/go-weft/weft/cmd/weft/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
