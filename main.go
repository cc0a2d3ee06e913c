// Package main is the entry point of ucode-ts, a command-line tool that parses ucode
// scripts into tree-sitter compatible syntax trees.
package main

import "tree-sitter-ucode/cmd"

func main() {
	cmd.Execute()
}
