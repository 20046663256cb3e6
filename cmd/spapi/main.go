// Package main is the entry point for the spapi CLI.
package main

import (
	"github.com/donaldgifford/spapi/cmd/spapi/cmd"
)

func main() {
	cmd.Execute()
}
