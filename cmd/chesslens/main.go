package main

import "chesslens/internal/cli"

func main() {
	cli.Execute()
}
