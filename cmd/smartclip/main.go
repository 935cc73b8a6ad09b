package main

import "github.com/SravanthiSinha/SmartClip/internal/cli"

func main() {
	cli.Main()
}
