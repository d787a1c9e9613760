package main

import "github.com/renotrack/renovation-tracker/cmd/renotrack/commands"

func main() {
	commands.Execute()
}
