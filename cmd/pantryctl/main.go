// Package main provides the pantryctl command line client
package main

import "github.com/alchemorsel/pantry/internal/cli"

func main() {
	cli.Execute()
}
