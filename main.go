package main

import "github.com/Norgate-AV/sassbuild/cmd"

func main() {
	cmd.Execute()
}
