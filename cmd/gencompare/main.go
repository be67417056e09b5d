package main

import "github.com/mvp-joe/gencompare/internal/cli"

func main() {
	cli.Execute()
}
