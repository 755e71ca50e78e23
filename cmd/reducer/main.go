package main

import "frame-reduction/internal/cli"

func main() {
	cli.Execute()
}
