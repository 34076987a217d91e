package main

import "github.com/cyberpills/avisos/internal/cli"

func main() {
	cli.Execute()
}
