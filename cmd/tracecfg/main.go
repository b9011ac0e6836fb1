// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command tracecfg builds a control-flow graph from execution traces.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
