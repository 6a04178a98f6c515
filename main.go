// Package main is the entry point for the demostat CLI tool, which
// aggregates CS2 demo files into per-player match statistics.
package main

import "github.com/pugline/demostat/cmd"

func main() {
	cmd.Execute()
}
