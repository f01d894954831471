package main

import "github.com/signoff-dev/signoff/internal/cli"

func main() {
	cli.Execute()
}
