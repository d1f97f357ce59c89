package main

import (
	"github.com/mchmarny/fraudcheck/pkg/cli"
)

func main() {
	cli.Execute()
}
