// Package main is the entry point for the prefixstorage CLI.
package main

import "prefixstorage.dev/pkg/prefixstorage/cmd"

func main() {
	cmd.Execute()
}
