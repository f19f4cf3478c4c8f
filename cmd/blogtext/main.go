package main

import "github.com/shiddong/blog/internal/cli"

func main() {
	cli.Main()
}
