package main

import "github.com/groovechain/groovechain/app/tooling/cli/cmd"

func main() {
	cmd.Execute()
}
