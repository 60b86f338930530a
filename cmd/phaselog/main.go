package main

import "github.com/livp123/phaselog/cmd/phaselog/commands"

func main() {
	commands.Execute()
}
