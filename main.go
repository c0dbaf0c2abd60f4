package main

import (
	"os"

	"github.com/kyleking/lazylinear/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
