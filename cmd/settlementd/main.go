package main

import "github.com/quantadex/stellar-core/internal/cli"

func main() {
	cli.Execute()
}
