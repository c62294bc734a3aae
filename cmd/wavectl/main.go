package main

import (
	"github.com/wavebreak/wavebreak-site/internal/cli"
)

func main() {
	cli.Execute()
}
