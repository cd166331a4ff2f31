package main

import (
	"github.com/robotalks/uart.go/pkg/cli/sh"
	"github.com/robotalks/uart.go/pkg/env"
	"github.com/robotalks/uart.go/pkg/sim"

	_ "github.com/robotalks/uart.go/pkg/cli/cmds/bench"
)

//go-build: CGO_ENABLED=0

func init() {
	sim.SetupFlags()
	env.SetupFlags()
}

func main() {
	sh.Main()
}
