package main

import "github.com/everFinance/tokenregistry/cli/registry/cmd"

func main() {
	cmd.Execute()
}
