// Package main provides the easel CLI.
package main

import (
	"github.com/mesh-intelligence/easel/internal/cli"
)

func main() {
	cli.Execute()
}
