package main

import "github.com/colocation-mining/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
