package main

import "recipe-book/internal/cli"

func main() {
	cli.Execute()
}
