package main

import "github.com/oKhodus/spy-cat/internal/cli"

func main() {
	cli.Execute()
}
