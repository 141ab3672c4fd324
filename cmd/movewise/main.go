package main

import "github.com/pfrederiksen/movewise/internal/cli"

func main() {
	cli.Execute()
}
