// Package main is the entry point for the lintgate CLI.
package main

import "lintgate.dev/pkg/lintgate/cmd"

func main() {
	cmd.Execute()
}
