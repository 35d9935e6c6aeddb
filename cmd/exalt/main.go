package main

import "github.com/exalt-lang/exalt/cmd/exalt/commands"

func main() {
	commands.Execute()
}
