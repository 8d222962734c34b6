package main

import "github.com/jrsteele09/reposcribe/cmd/reposcribe/commands"

func main() {
	commands.Execute()
}
