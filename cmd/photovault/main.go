// filepath: cmd/photovault/main.go
package main

import "photovault/internal/cli"

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
