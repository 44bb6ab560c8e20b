// Package main is the entry point for the pointcov CLI.
package main

import "pointcov.dev/pkg/pointcov/cmd"

func main() {
	cmd.Execute()
}
