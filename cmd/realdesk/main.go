// Package main provides the realdesk CLI and API server.
package main

import "github.com/mesh-intelligence/realdesk/internal/cli"

func main() {
	cli.Execute()
}
